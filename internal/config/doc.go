// Package config loads gorp's configuration.
//
// There are two sources. Command files (".gorp") name the build, clean
// and edit commands, one "tag: command" per line:
//
//	build: make -j8
//	clean: make clean
//	edit: code -g FILE:LINE:COLUMN
//
// $HOME/.gorp is read first and ./.gorp second, so a project file
// overrides the user's defaults key by key. Missing files are skipped.
//
// The optional settings file, $XDG_CONFIG_HOME/gorp/settings.toml,
// holds logging, color and UI preferences:
//
//	[log]
//	level = "debug"
//	file = "/tmp/gorp.log"
//
//	[colors]
//	error = "red"
//	warning = "#ffaf00"
//	link = "cyan"
//
//	[ui]
//	mouse = true
//	watch = true
package config
