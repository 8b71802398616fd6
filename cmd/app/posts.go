package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/BloggingApp/blog-console/internal/dto"
	"github.com/BloggingApp/blog-console/internal/model"
	"github.com/BloggingApp/blog-console/internal/query"
	"github.com/BloggingApp/blog-console/internal/view"
	"github.com/spf13/cobra"
)

func postsCmd() *cobra.Command {
	var (
		status string
		title  string
		start  string
		end    string
		sort   string
		page   int
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Print one page of a post list view",
		Long: `Print one page of the published, draft or deleted list.

Examples:
  blog-console posts --status draft --sort views:desc,created_at
  blog-console posts --status deleted --start 2024-01-01 --end 2024-01-31`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := model.ParseStatus(status)
			if err != nil {
				return err
			}
			dates, err := query.ParseDateRange(start, end, time.Local)
			if err != nil {
				return err
			}
			spec, err := query.ParseSortSpec(sort)
			if err != nil {
				return err
			}

			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if limit <= 0 {
				limit = a.cfg.Blog.Settings.DefaultPageSize
			}
			session := view.NewSession(a.services.Post, view.Options{
				Status:   st,
				PageSize: limit,
				Debounce: a.cfg.Blog.Debounce,
				Logger:   a.logger,
			})
			defer session.Close()

			session.SetFilters(query.FilterSpec{Title: title, DateRange: dates})
			if err := session.SetSort(ctx, spec); err != nil {
				return err
			}
			if err := session.SetPage(ctx, page); err != nil {
				return err
			}

			snap := session.Snapshot()
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(dto.NewListPostsResponse(snap.Current))
			}
			printPage(snap)
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "published", "Partition to list (published, draft, deleted)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Case-insensitive title filter")
	cmd.Flags().StringVar(&start, "start", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Range end, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&sort, "sort", "", "Sort keys, e.g. views:desc,created_at")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Page size (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the page as JSON")

	return cmd
}

func printPage(snap view.Snapshot) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tTAGS\tDATE")
	for _, p := range snap.Current.Items {
		date := query.DateField(p, snap.Status)
		when := ""
		if date != nil {
			when = date.Local().Format(time.DateOnly)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Title, p.Category, strings.Join(p.Tags, ","), when)
	}
	_ = w.Flush()
	fmt.Printf("page %d of %d, %d posts, sorted by %s\n",
		snap.Current.Page, snap.Current.TotalPages, snap.Current.TotalCount, snap.Sort)
}
