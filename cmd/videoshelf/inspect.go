package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/eringen/videoshelf"
	"github.com/eringen/videoshelf/content"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	draftStyle  = lipgloss.NewStyle().Faint(true)
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the indexed content nodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openIndex(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		videosOnly, _ := cmd.Flags().GetBool("videos")
		var nodes []content.Node
		if videosOnly {
			nodes, err = store.Query(cmd.Context(), videoshelf.Query{Type: content.TypeVideo, IncludeDrafts: true})
		} else {
			nodes, err = store.ListAll(cmd.Context())
		}
		if err != nil {
			return err
		}
		printNodes(cmd.OutOrStdout(), nodes)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id|path>",
	Short: "Render one node in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openIndex(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := findNode(ctx, store, args[0])
		if err != nil {
			return err
		}
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return err
		}
		out, err := renderer.Render(nodeMarkdown(n))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

// openIndex loads the configured content directory into a fresh in-memory
// index, so list and show never touch a running server's database.
func openIndex(ctx context.Context) (*videoshelf.Store, error) {
	cfg, err := videoshelf.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	store, err := videoshelf.NewStore(":memory:")
	if err != nil {
		return nil, err
	}
	if _, err := videoshelf.NewSyncer(cfg.ContentDir, store, nil, logger).Sync(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// findNode accepts a full id, a unique id prefix or a content path.
func findNode(ctx context.Context, store *videoshelf.Store, key string) (content.Node, error) {
	n, err := store.GetNode(ctx, key)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, videoshelf.ErrNotFound) {
		return content.Node{}, err
	}
	all, err := store.ListAll(ctx)
	if err != nil {
		return content.Node{}, err
	}
	var matches []content.Node
	for _, n := range all {
		if n.Path == key || strings.HasPrefix(n.ID, key) {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
		return content.Node{}, fmt.Errorf("no node matches %q", key)
	case 1:
		return matches[0], nil
	default:
		return content.Node{}, fmt.Errorf("%q matches %d nodes", key, len(matches))
	}
}

func nodeMarkdown(n content.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", n.Frontmatter.Title)
	var meta []string
	for _, s := range []string{n.Frontmatter.Speaker, n.Frontmatter.Duration, n.Frontmatter.Date} {
		if s != "" {
			meta = append(meta, s)
		}
	}
	if len(meta) > 0 {
		fmt.Fprintf(&b, "*%s*\n\n", strings.Join(meta, " · "))
	}
	if n.Frontmatter.URL != "" {
		fmt.Fprintf(&b, "<%s>\n\n", n.Frontmatter.URL)
	}
	b.WriteString(n.Raw)
	return b.String()
}

func printNodes(w io.Writer, nodes []content.Node) {
	if len(nodes) == 0 {
		fmt.Fprintln(w, "No content nodes found.")
		return
	}
	titleW, pathW := len("TITLE"), len("PATH")
	for _, n := range nodes {
		titleW = max(titleW, min(lipgloss.Width(n.Frontmatter.Title), 48))
		pathW = max(pathW, lipgloss.Width(n.Path))
	}
	col := func(s string, width int) string {
		if r := []rune(s); len(r) > width {
			s = string(r[:width-1]) + "…"
		}
		return lipgloss.NewStyle().Width(width + 2).Render(s)
	}
	fmt.Fprintln(w, headerStyle.Render(col("ID", 8)+col("TYPE", 6)+col("TITLE", titleW)+col("PATH", pathW)))
	for _, n := range nodes {
		line := idStyle.Render(col(n.ID[:8], 8)) +
			col(n.Frontmatter.Type, 6) +
			col(n.Frontmatter.Title, titleW) +
			col(n.Path, pathW)
		if n.Frontmatter.Draft {
			line = draftStyle.Render(line + " (draft)")
		}
		fmt.Fprintln(w, line)
	}
}

func init() {
	listCmd.Flags().Bool("videos", false, "Only list video nodes")
}
