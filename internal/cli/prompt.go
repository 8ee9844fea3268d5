package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"modelcfg/internal/modelconfig"
	"modelcfg/internal/tokenizer"
)

func (a *app) promptCmd() *cobra.Command {
	var (
		raw    bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "prompt <family> <instruction> [key=value...]",
		Short: "Format a prompt and its generation params",
		Example: "  modelcfg prompt dolly-v2 \"What is the capital of France?\"\n" +
			"  modelcfg prompt dolly-v2 \"hi\" max_new_tokens=64 temperature=0.5 --json",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kw, err := parseKV(args[2:])
			if err != nil {
				return err
			}
			kw["prompt"] = args[1]
			if raw {
				kw["use_default_prompt_template"] = false
			}
			svc, err := a.newService(cmd.Context(), false)
			if err != nil {
				return err
			}
			resp, err := svc.Sanitize(args[0], kw)
			if err != nil {
				return err
			}
			if asJSON {
				return a.printJSON(resp)
			}
			_, err = fmt.Fprintln(a.out, resp.Prompt)
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Pass the instruction through without the family template")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the prompt with generation and load params as JSON")
	return cmd
}

func (a *app) quantiseCmd() *cobra.Command {
	var modelID string
	cmd := &cobra.Command{
		Use:     "quantise <mode> [key=value...]",
		Aliases: []string{"quantize"},
		Short:   "Select a quantisation config (int8, int4, gptq, awq)",
		Example: "  modelcfg quantise int8 llm_int8_threshhold=5.0\n" +
			"  modelcfg quantise gptq --model-id databricks/dolly-v2-7b bits=8",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kw, err := parseKV(args[1:])
			if err != nil {
				return err
			}
			svc, err := a.newService(cmd.Context(), true)
			if err != nil {
				return err
			}
			resp, err := svc.Quantise(modelID, args[0], kw)
			if err != nil {
				return err
			}
			return a.printJSON(resp)
		},
	}
	cmd.Flags().StringVar(&modelID, "model-id", "", "Model id (defaults to the default family's default id)")
	return cmd
}

func (a *app) tokenCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:     "token <marker>",
		Short:   "Resolve the id of a special token marker",
		Example: "  modelcfg token \"### End\" --tokenizer ~/models/dolly-v2-3b/tokenizer.json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if path == "" {
				return errors.New("--tokenizer is required")
			}
			tok, err := tokenizer.Open(path)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := tok.Close(); err == nil {
					err = cerr
				}
			}()
			id, err := modelconfig.ResolveSpecialTokenID(tok, args[0])
			if err != nil {
				return err
			}
			a.log.Debug().Str("marker", args[0]).Int("id", id).Msg("special token resolved")
			_, err = fmt.Fprintln(a.out, id)
			return err
		},
	}
	cmd.Flags().StringVar(&path, "tokenizer", "", "tokenizer.json or .gguf model file")
	return cmd
}
