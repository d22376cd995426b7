package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/savemoney/internal/cli"
	"github.com/Veraticus/savemoney/internal/common"
	"github.com/Veraticus/savemoney/internal/config"
	"github.com/Veraticus/savemoney/internal/sheets"
)

func sheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Manage the Google Sheets ledger",
	}
	cmd.AddCommand(sheetsTestCmd())
	cmd.AddCommand(sheetsAuthCmd())
	return cmd
}

func sheetsTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Check that the ledger spreadsheet is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ledger, err := initLedger(ctx)
			if err != nil {
				return err
			}
			if err := ledger.TestConnection(ctx); err != nil {
				return fmt.Errorf("ledger connection failed: %w", err)
			}
			msg := "表格连接正常"
			if ledger.Simulated() {
				msg += "（模拟模式，未配置 Google Sheets）"
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(msg))
			return nil
		},
	}
}

func sheetsAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize Google Sheets access with OAuth2",
		Long: `Authorize Google Sheets access using OAuth2.

This command will:
1. Print a URL to authorize access in your browser
2. Save the token next to your config
3. Store the refresh token in your config file`,
		RunE: runSheetsAuth,
	}
	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("listen", "localhost:8085", "callback listen address")
	return cmd
}

func runSheetsAuth(cmd *cobra.Command, _ []string) error {
	cfg := config.LoadSheetsConfig()
	if v, _ := cmd.Flags().GetString("client-id"); v != "" {
		cfg.ClientID = v
	}
	if v, _ := cmd.Flags().GetString("client-secret"); v != "" {
		cfg.ClientSecret = v
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return common.NewUserError("未找到 OAuth2 凭据，请设置 sheets.client_id 和 sheets.client_secret，或使用 --client-id 和 --client-secret",
			common.ErrMissingConfig)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	listen, _ := cmd.Flags().GetString("listen")

	token, err := sheets.AuthenticateOAuth2Interactive(cmd.Context(), sheets.OAuth2Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenFile:    filepath.Join(configDir, "savemoney", "sheets-token.json"),
		ListenAddr:   listen,
	}, slog.Default())
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	viper.Set("sheets.refresh_token", token.RefreshToken)
	if err := saveConfig(); err != nil {
		slog.Warn("Failed to update config file with refresh token", "error", err)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "请手动添加到 config.yaml:\nsheets:\n  refresh_token: %q\n", token.RefreshToken)
		return nil
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Google Sheets 授权成功"))
	return nil
}

func saveConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		configFile = filepath.Join(home, ".config", "savemoney", "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0o750); err != nil {
		return err
	}
	return viper.WriteConfigAs(configFile)
}
