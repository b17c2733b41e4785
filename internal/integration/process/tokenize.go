package process

// Tokenize splits a command string into an argument vector.
//
// Tokens are separated by whitespace (any byte <= ' '). A token that starts
// with a single or double quote runs to the matching quote, which is
// dropped; an unterminated quote runs to the end of the string. There is no
// escaping and no quote nesting.
func Tokenize(command string) []string {
	var argv []string
	i, n := 0, len(command)
	for {
		for i < n && command[i] <= ' ' {
			i++
		}
		if i >= n {
			return argv
		}

		quote := byte(0)
		if c := command[i]; c == '"' || c == '\'' {
			quote = c
			i++
		}

		start := i
		for i < n && !endsToken(command[i], quote) {
			i++
		}
		argv = append(argv, command[start:i])

		// Step over the closing quote or separator.
		if i < n {
			i++
		}
	}
}

func endsToken(c, quote byte) bool {
	if quote != 0 {
		return c == quote
	}
	return c <= ' '
}
