package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragqa/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write configuration",
	Long: `View and change settings stored in ~/.ragqa/config.toml.

Keys are dot-separated, for example chunker.chunk_size or llm.provider.
API keys are never stored; set GOOGLE_API_KEY, OPENAI_API_KEY or
ANTHROPIC_API_KEY in the environment or a .env file.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print the effective value of a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Store a value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every key with its effective value",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate settings and ping the configured providers",
	Args:  cobra.NoArgs,
	RunE:  runConfigCheck,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	r, err := currentRuntime()
	if err != nil {
		return err
	}
	value, err := r.Settings.Value(args[0])
	if err != nil {
		return err
	}
	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	r, err := currentRuntime()
	if err != nil {
		return err
	}
	if err := r.Settings.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	r, err := currentRuntime()
	if err != nil {
		return err
	}
	for _, key := range r.Settings.Keys() {
		value, err := r.Settings.Value(key)
		if err != nil {
			return err
		}
		cmd.Printf("%-32s %s\n", key, value)
	}

	cfg, err := r.Settings.Get()
	if err != nil {
		return err
	}
	cmd.Println()
	printKeyStatus(cmd, "Embedding API key", cfg.Embedding.Provider, cfg.Embedding.APIKey)
	printKeyStatus(cmd, "LLM API key", cfg.LLM.Provider, cfg.LLM.APIKey)
	return nil
}

func printKeyStatus(cmd *cobra.Command, label string, provider domain.AIProvider, key string) {
	env := provider.APIKeyEnv()
	switch {
	case env == "":
		cmd.Printf("%-32s not needed for %s\n", label, provider)
	case key == "":
		cmd.Printf("%-32s %s not set\n", label, env)
	default:
		cmd.Printf("%-32s %s=%s\n", label, env, maskAPIKey(key))
	}
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	r, err := currentRuntime()
	if err != nil {
		return err
	}
	cfg, err := r.Settings.Get()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		cmd.Printf("settings:  %v\n", err)
		return err
	}
	cmd.Println("settings:  ok")

	if r.Checker == nil {
		return nil
	}
	ctx := cmd.Context()

	var errs []error
	if err := r.Checker.ValidateEmbedding(ctx, cfg.Embedding); err != nil {
		cmd.Printf("embedding: %v\n", err)
		errs = append(errs, err)
	} else {
		cmd.Printf("embedding: ok (%s %s)\n", cfg.Embedding.Provider, cfg.Embedding.Model)
	}
	if err := r.Checker.ValidateLLM(ctx, cfg.LLM); err != nil {
		cmd.Printf("llm:       %v\n", err)
		errs = append(errs, err)
	} else {
		cmd.Printf("llm:       ok (%s %s)\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config check failed: %w", err)
	}
	return nil
}
