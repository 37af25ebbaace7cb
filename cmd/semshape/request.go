package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	shapetemplate "github.com/c360studio/semshape/processor/shape-template"
)

func requestCmd(flags *globalFlags) *cobra.Command {
	var (
		mandatory bool
		format    string
		list      bool
	)

	cmd := &cobra.Command{
		Use:   "request [type]",
		Short: "Ask a running semshape service for a template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.setup(cmd)
			if err != nil {
				return err
			}

			req := shapetemplate.TemplateRequest{
				MandatoryOnly: mandatory,
				Format:        format,
				ListTypes:     list,
			}
			token := "types"
			if len(args) == 1 {
				req.Type = args[0]
				token = args[0]
			}
			if err := req.Validate(); err != nil {
				return err
			}
			data, err := json.Marshal(&req)
			if err != nil {
				return fmt.Errorf("marshal request: %w", err)
			}

			nc, err := nats.Connect(cfg.NATS.URL, nats.Name(appName+"-cli"), nats.Timeout(cfg.NATS.Timeout))
			if err != nil {
				return wrapNATSError(err, cfg.NATS.URL)
			}
			defer nc.Close()

			subject := requestSubject(cfg.NATS.Subject, token)
			logger.Debug("Sending template request", "subject", subject)

			msg, err := nc.Request(subject, data, cfg.NATS.Timeout)
			if err != nil {
				return fmt.Errorf("request %s: %w", subject, err)
			}

			var resp shapetemplate.TemplateResponse
			if err := json.Unmarshal(msg.Data, &resp); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return printResponse(cmd, &resp)
		},
	}

	cmd.Flags().BoolVarP(&mandatory, "mandatory", "m", false, "Only include mandatory properties (minCount > 0)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (json, yaml, jsonld)")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List the service's types")
	return cmd
}

// requestSubject fills the trailing wildcard of pattern with token.
func requestSubject(pattern, token string) string {
	if prefix, ok := strings.CutSuffix(pattern, ".*"); ok {
		return prefix + "." + token
	}
	if prefix, ok := strings.CutSuffix(pattern, ".>"); ok {
		return prefix + "." + token
	}
	return pattern
}

func printResponse(cmd *cobra.Command, resp *shapetemplate.TemplateResponse) error {
	if resp.Error != "" {
		return fmt.Errorf("%s: %s", resp.ErrorKind, resp.Error)
	}
	if resp.Types != nil {
		out := cmd.OutOrStdout()
		for _, t := range resp.Types {
			fmt.Fprintln(out, t)
		}
		return nil
	}
	if resp.Rendered != "" {
		return writeLine(cmd, []byte(resp.Rendered))
	}
	return writeLine(cmd, resp.Template)
}
