// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/nttcom/pcepio/pkg/packet/pcep"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDecodeCmd() *cobra.Command {

	decodeCmd := &cobra.Command{
		Use:   "decode [file...]",
		Short: "Decode hex encoded PCEP messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			verify, err := cmd.Flags().GetBool("verify")
			if err != nil {
				return err
			}
			inputs, err := readInputs(cmd, args, cfg.Global.Decode.IgnoreSpaces)
			if err != nil {
				return err
			}
			return decodeMessages(cmd.OutOrStdout(), inputs, verify || cfg.Global.Decode.VerifyRoundTrip)
		},
	}

	decodeCmd.Flags().Bool("verify", false, "re-encode every message and compare it with the input")
	return decodeCmd
}

type decodeResult struct {
	Name    string         `json:"name"`
	Type    string         `json:"type,omitempty"`
	Length  int            `json:"length"`
	Message map[string]any `json:"message,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func decodeMessages(w io.Writer, inputs []hexMessage, verify bool) error {
	var results []decodeResult
	for _, in := range inputs {
		messages, err := in.split()
		for _, m := range messages {
			results = append(results, decodeOne(m, verify))
		}
		if err != nil {
			zap.L().Error("failed to split input", zap.String("name", in.Name), zap.Error(err))
			results = append(results, decodeResult{Name: in.Name, Length: len(in.Data), Error: err.Error()})
		}
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}

	if jsonFmt {
		if err := printJSON(w, map[string]any{"messages": results}); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			printDecodeResult(w, r)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d messages failed to decode", failed, len(results))
	}
	return nil
}

func decodeOne(in hexMessage, verify bool) decodeResult {
	r := decodeResult{Name: in.Name, Length: len(in.Data)}
	msg, err := pcep.DecodeMessage(in.Data)
	if err != nil {
		zap.L().Error("failed to decode message", zap.String("name", in.Name), zap.Error(err))
		r.Error = err.Error()
		return r
	}
	r.Type = msg.MessageType().String()
	zap.L().Debug("decoded message", zap.String("name", in.Name), zap.Object("message", msg))

	if r.Message, err = messageFields(msg); err != nil {
		r.Error = err.Error()
		return r
	}
	if !verify {
		return r
	}

	wire, err := msg.Serialize()
	if err != nil {
		r.Error = fmt.Sprintf("failed to encode: %v", err)
		return r
	}
	if !bytes.Equal(wire, in.Data) {
		zap.L().Error("round trip mismatch", zap.String("name", in.Name),
			zap.String("input", hex.EncodeToString(in.Data)),
			zap.String("output", hex.EncodeToString(wire)))
		r.Error = "round trip mismatch: " + hex.EncodeToString(wire)
	}
	return r
}

func printDecodeResult(w io.Writer, r decodeResult) {
	if r.Type == "" {
		fmt.Fprintf(w, "%s: %d bytes\n", r.Name, r.Length)
	} else {
		fmt.Fprintf(w, "%s: %s message, %d bytes\n", r.Name, r.Type, r.Length)
	}
	if objects, ok := r.Message["objects"].([]any); ok {
		for _, o := range objects {
			fields, _ := o.(map[string]any)
			fmt.Fprintf(w, "  %v object\n", fields["class"])
		}
	}
	if r.Error != "" {
		fmt.Fprintf(w, "  error: %s\n", r.Error)
	}
}
