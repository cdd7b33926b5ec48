// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nttcom/pcepio/pkg/packet/pcep"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

// hexMessage is one line of hex input. Data may hold several messages back
// to back.
type hexMessage struct {
	Name string
	Data []byte
}

// readInputs reads every file named in args, stdin when args is empty or
// names "-".
func readInputs(cmd *cobra.Command, args []string, ignoreSpaces bool) ([]hexMessage, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}

	var inputs []hexMessage
	for _, name := range args {
		m, err := readInput(cmd, name, ignoreSpaces)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		inputs = append(inputs, m...)
	}
	return inputs, nil
}

func readInput(cmd *cobra.Command, name string, ignoreSpaces bool) ([]hexMessage, error) {
	if name == "-" {
		return parseHexMessages(cmd.InOrStdin(), ignoreSpaces)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseHexMessages(f, ignoreSpaces)
}

// parseHexMessages accepts one "[name] hex" pair per line. Blank lines and
// lines starting with '#' are skipped. With ignoreSpaces a line is a single
// hex string that may be broken up by whitespace, as in a hex dump.
func parseHexMessages(r io.Reader, ignoreSpaces bool) ([]hexMessage, error) {
	var messages []hexMessage
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name := fmt.Sprintf("line-%d", lineNo)
		encoded := line
		fields := strings.Fields(line)
		switch {
		case ignoreSpaces:
			encoded = strings.Join(fields, "")
		case len(fields) == 2:
			name, encoded = fields[0], fields[1]
		case len(fields) > 2:
			return nil, fmt.Errorf("line %d: unexpected whitespace in hex input", lineNo)
		}

		data, err := hex.DecodeString(strings.TrimPrefix(encoded, "0x"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		messages = append(messages, hexMessage{Name: name, Data: data})
	}
	return messages, sc.Err()
}

// split cuts the input into whole messages. A trailing fragment is returned
// as an error along with the messages before it.
func (in hexMessage) split() ([]hexMessage, error) {
	var messages []hexMessage
	data := in.Data
	for len(data) > 0 {
		advance, token, err := pcep.SplitMessage(data, true)
		if err != nil {
			return messages, err
		}
		name := in.Name
		if len(messages) > 0 || advance < len(data) {
			name = fmt.Sprintf("%s/%d", in.Name, len(messages)+1)
		}
		messages = append(messages, hexMessage{Name: name, Data: token})
		data = data[advance:]
	}
	return messages, nil
}

// messageFields renders m through its zap marshaler so that JSON output and
// logs share one representation.
func messageFields(m pcep.Message) (map[string]any, error) {
	enc := zapcore.NewMapObjectEncoder()
	if err := m.MarshalLogObject(enc); err != nil {
		return nil, err
	}
	return enc.Fields, nil
}

func printJSON(w io.Writer, v any) error {
	out, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", out)
	return err
}
