package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/karirkit/karirkit/internal/client"
)

type cliOptions struct {
	baseURL string
	token   string
}

func (o *cliOptions) transport() *client.Transport {
	return client.NewTransport(o.baseURL, client.WithToken(o.token))
}

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "karirkit",
		Short:         "Command-line client for the KarirKit API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.baseURL, "base-url",
		envOr("KARIRKIT_BASE_URL", "http://localhost:8080/api/v1"),
		"API base URL")
	root.PersistentFlags().StringVar(&opts.token, "token",
		os.Getenv("KARIRKIT_TOKEN"),
		"bearer token (defaults to KARIRKIT_TOKEN)")

	root.AddCommand(
		newLoginCommand(opts),
		newListCommand(opts),
		newCreateCommand(opts),
		newUpdateCommand(opts),
		newDeleteCommand(opts),
		newMassDeleteCommand(opts),
		newDownloadCommand(opts),
	)
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newLoginCommand(opts *cliOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Token     string `json:"token"`
				ExpiresAt int64  `json:"expires_at"`
			}
			body := map[string]string{"email": email, "password": password}
			if err := opts.transport().Do(cmd.Context(), http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newListCommand(opts *cliOptions) *cobra.Command {
	var (
		page, perPage        int
		q, sortBy, sortOrder string
		filters              []string
	)

	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "List a resource with pagination, search, sorting, and filters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := client.Params{
				Page:      page,
				PerPage:   perPage,
				Q:         q,
				SortBy:    sortBy,
				SortOrder: sortOrder,
			}
			for _, f := range filters {
				k, v, ok := strings.Cut(f, "=")
				if !ok {
					return fmt.Errorf("invalid filter %q: want field=value", f)
				}
				if params.Filters == nil {
					params.Filters = make(map[string]string)
				}
				params.Filters[k] = v
			}

			store := client.NewQueryStore(opts.transport())
			p, err := store.List(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", 20, "items per page")
	cmd.Flags().StringVar(&q, "q", "", "free-text search")
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "sort field")
	cmd.Flags().StringVar(&sortOrder, "sort-order", "", "asc or desc")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "resource filter as field=value (repeatable)")
	return cmd
}

func newCreateCommand(opts *cliOptions) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "create <resource>",
		Short: "Create an item from a JSON payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := decodePayload(data)
			if err != nil {
				return err
			}
			tr := opts.transport()
			m := client.NewMutator(tr, client.NewQueryStore(tr), args[0])
			item, err := m.Create(cmd.Context(), input)
			if err != nil {
				return describeMutationError(err)
			}
			return printJSON(cmd, item)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON payload")
	cmd.MarkFlagRequired("data")
	return cmd
}

func newUpdateCommand(opts *cliOptions) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "update <resource> <id>",
		Short: "Update an item from a JSON payload",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := decodePayload(data)
			if err != nil {
				return err
			}
			tr := opts.transport()
			m := client.NewMutator(tr, client.NewQueryStore(tr), args[0])
			item, err := m.Update(cmd.Context(), args[1], input)
			if err != nil {
				return describeMutationError(err)
			}
			return printJSON(cmd, item)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON payload")
	cmd.MarkFlagRequired("data")
	return cmd
}

func newDeleteCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete one item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := opts.transport()
			m := client.NewMutator(tr, client.NewQueryStore(tr), args[0])
			if err := m.Delete(cmd.Context(), args[1]); err != nil {
				return describeMutationError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
}

func newMassDeleteCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mass-delete <resource> <id>...",
		Short: "Delete several items in one request",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr := opts.transport()
			m := client.NewMutator(tr, client.NewQueryStore(tr), args[0])
			deleted, err := m.BulkDelete(cmd.Context(), args[1:])
			if err != nil {
				return describeMutationError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d items\n", deleted)
			return nil
		},
	}
}

func newDownloadCommand(opts *cliOptions) *cobra.Command {
	var dir, name string

	cmd := &cobra.Command{
		Use:   "download <resource> <id>",
		Short: "Download an item's file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.transport().Download(cmd.Context(), args[0], args[1], dir, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "output-dir", "o", ".", "directory to save into")
	cmd.Flags().StringVar(&name, "name", "download", "file name to save as")
	return cmd
}

func decodePayload(data string) (map[string]any, error) {
	var input map[string]any
	if err := json.Unmarshal([]byte(data), &input); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}
	return input, nil
}

// describeMutationError flattens field-level validation detail into a
// readable message.
func describeMutationError(err error) error {
	fields := client.FieldMessages(err)
	if len(fields) == 0 {
		return err
	}
	parts := make([]string, 0, len(fields))
	for field, msg := range fields {
		parts = append(parts, field+": "+msg)
	}
	return fmt.Errorf("validation failed: %s", strings.Join(parts, "; "))
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
