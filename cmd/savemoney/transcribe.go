package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/savemoney/internal/cli"
	"github.com/Veraticus/savemoney/internal/common"
)

func transcribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe a recording and extract an expense record",
		Args:  cobra.ExactArgs(1),
		RunE:  runTranscribe,
	}
	cmd.Flags().Bool("json", false, "print the record as JSON")
	cmd.Flags().Bool("save", false, "save the record after extraction")
	return cmd
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	audio, err := os.ReadFile(args[0]) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to read audio: %w", err)
	}

	transcriber, err := initTranscriber()
	if err != nil {
		return common.NewUserError("语音识别服务不可用，请配置 stt.api_key 或启用 stt.mock", err)
	}
	text, err := transcriber.Transcribe(ctx, audio, filepath.Base(args[0]))
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}
	_, _ = fmt.Fprintln(out, cli.FormatInfo(cli.MicIcon+" "+text))

	engine, err := newEngine(nil)
	if err != nil {
		return err
	}
	rec := engine.Process(ctx, text)

	asJSON, _ := cmd.Flags().GetBool("json")
	if err := printRecord(out, rec, asJSON); err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); !save {
		return nil
	}
	return persist(cmd, rec)
}
