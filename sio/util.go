package sio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"unicode/utf8"
)

// JS renders its argument as JSON or as '%#v'.
func JS(x interface{}) string {
	js, err := json.Marshal(x)
	if err != nil {
		return fmt.Sprintf("%#v", x)
	}
	return string(js)
}

// JShort renders its argument as JS() but only up to n bytes
// (without splitting a rune), adding "..." when truncated.
func JShort(x interface{}, n int) string {
	js := JS(x)
	if len(js) <= n {
		return js
	}
	for 0 < n && !utf8.RuneStart(js[n]) {
		n--
	}
	return js[:n] + "..."
}

var shell = regexp.MustCompile(`<<(.*?)>>`)

// ShellExpand replaces each shell command delimited by '<<' and '>>'
// with the command's output (without a trailing newline).  Useful for
// computing input coordinates in scripts.  Use at your own risk.
func ShellExpand(ctx context.Context, line string) (string, error) {
	var (
		literals = shell.Split(line, -1)
		cmds     = shell.FindAllStringSubmatch(line, -1)
		acc      = literals[0]
	)
	for i, s := range cmds {
		cmd := exec.CommandContext(ctx, "sh", "-c", s[1])
		var out bytes.Buffer
		cmd.Stdout = &out
		if err := cmd.Run(); err != nil {
			return "", fmt.Errorf("shell error %s on %s", err, s[1])
		}
		acc += string(bytes.TrimRight(out.Bytes(), "\n")) + literals[i+1]
	}
	return acc, nil
}
