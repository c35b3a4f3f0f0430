package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"edu-catalog/internal/catalog"
	"edu-catalog/internal/devutil"
	"edu-catalog/internal/domain"
	"edu-catalog/internal/export"
	"edu-catalog/internal/filter"
	"edu-catalog/internal/sftpclient"
)

// FilterOptions are shared by commands that list items.
type FilterOptions struct {
	Type     string   `long:"type" choice:"all" choice:"course" choice:"workshop" choice:"event" default:"all" description:"Keep only this item type"`
	Category string   `long:"category" default:"All" description:"Keep only this category"`
	Query    string   `short:"q" long:"query" description:"Case-insensitive text filter over title, description, category and instructor"`
	Exclude  []string `long:"exclude" description:"Drop this id, e.g. an item already enrolled in (repeatable)"`
}

func (f FilterOptions) criteria() filter.Criteria {
	return filter.Criteria{Type: f.Type, Category: f.Category, Query: f.Query, ExcludeIDs: f.Exclude}
}

type OutputOptions struct {
	JSON  bool `long:"json" description:"Print JSON instead of a table"`
	Width int  `long:"width" default:"120" description:"Table width in terminal cells"`
}

func (a *app) printItems(items []domain.EducationalItem, o OutputOptions) error {
	if o.JSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	if err := export.WriteTable(a.out, items, o.Width); err != nil {
		return err
	}
	_, err := fmt.Fprintf(a.out, "%d items\n", len(items))
	return err
}

type fetchCommand struct {
	app *app

	NoCache    bool `long:"no-cache" description:"Ignore a fresh cache entry and query upstream"`
	Diff       bool `long:"diff" description:"Report changes against the previously cached catalog"`
	Categories bool `long:"categories" description:"List the categories present in the catalog instead of its items"`
	FilterOptions
	OutputOptions
}

func (c *fetchCommand) Execute(_ []string) error {
	a := c.app

	var previous []domain.EducationalItem
	if c.Diff {
		previous = a.svc.Cached(a.ctx)
	}

	items := a.svc.FetchItems(a.ctx, !c.NoCache)

	if c.Diff {
		return a.printChanges(catalog.Diff(previous, items))
	}
	if c.Categories {
		return a.printCategories(filter.Categories(items), c.OutputOptions)
	}
	return a.printItems(filter.Apply(items, c.criteria()), c.OutputOptions)
}

// printCategories lists "All" followed by every category, the choices
// accepted by --category.
func (a *app) printCategories(categories []string, o OutputOptions) error {
	all := append([]string{filter.AllCategories}, categories...)
	if o.JSON {
		return json.NewEncoder(a.out).Encode(all)
	}
	_, err := fmt.Fprintln(a.out, strings.Join(all, "\n"))
	return err
}

func (a *app) printChanges(ch catalog.Changes) error {
	if ch.Empty() {
		_, err := fmt.Fprintln(a.out, "no changes")
		return err
	}
	for _, group := range []struct {
		mark  string
		items []domain.EducationalItem
	}{
		{"+", ch.Added},
		{"~", ch.Updated},
		{"-", ch.Removed},
	} {
		for _, it := range group.items {
			if _, err := fmt.Fprintf(a.out, "%s %s  %s\n", group.mark, it.ID, export.Truncate(it.Title, 60)); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(a.out, "%d added, %d updated, %d removed\n", len(ch.Added), len(ch.Updated), len(ch.Removed))
	return err
}

type searchCommand struct {
	app *app

	Args struct {
		Query []string `positional-arg-name:"query" required:"yes"`
	} `positional-args:"yes"`
	OutputOptions
}

func (c *searchCommand) Execute(_ []string) error {
	items := c.app.svc.SearchItems(c.app.ctx, strings.Join(c.Args.Query, " "))
	return c.app.printItems(items, c.OutputOptions)
}

type getCommand struct {
	app *app

	Fields string `long:"fields" description:"Comma separated JSON fields to print, e.g. id,title,price"`
	Args   struct {
		ID string `positional-arg-name:"id" required:"yes"`
	} `positional-args:"yes"`
}

func (c *getCommand) Execute(_ []string) error {
	item, ok := c.app.svc.GetItemByID(c.app.ctx, c.Args.ID)
	if !ok {
		return fmt.Errorf("item %q not found", c.Args.ID)
	}

	picked, err := devutil.Pick(item, devutil.SplitFields(c.Fields)...)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(c.app.out)
	enc.SetIndent("", "  ")
	return enc.Encode(picked)
}

type clearCacheCommand struct {
	app *app
}

func (c *clearCacheCommand) Execute(_ []string) error {
	if err := c.app.svc.ClearCache(c.app.ctx); err != nil {
		return err
	}
	_, err := fmt.Fprintln(c.app.out, "cache cleared")
	return err
}

type exportCommand struct {
	app *app

	Format  string `long:"format" choice:"csv" choice:"xml" default:"csv" description:"Output format"`
	Out     string `short:"o" long:"out" default:"catalog.csv" description:"Output path"`
	NoCache bool   `long:"no-cache" description:"Ignore a fresh cache entry and query upstream"`
	SFTP    bool   `long:"sftp" description:"Upload the generated file via SFTP (SFTP_* env)"`
	FilterOptions
}

func (c *exportCommand) Execute(_ []string) error {
	a := c.app
	items := filter.Apply(a.svc.FetchItems(a.ctx, !c.NoCache), c.criteria())

	out := c.Out
	if c.Format == "xml" && strings.EqualFold(filepath.Ext(out), ".csv") {
		out = strings.TrimSuffix(out, filepath.Ext(out)) + ".xml"
	}

	var err error
	switch c.Format {
	case "xml":
		err = export.WriteXMLFile(out, items, time.Now())
	default:
		err = export.WriteCSVFile(out, items)
	}
	if err != nil {
		return err
	}
	a.log.Info("catalog exported", "path", out, "format", c.Format, "items", len(items))
	if _, err := fmt.Fprintf(a.out, "wrote %d items to %s\n", len(items), out); err != nil {
		return err
	}

	if !c.SFTP {
		return nil
	}
	sftpCfg := sftpclient.Config{
		Host:                  a.cfg.SFTPHost,
		Port:                  a.cfg.SFTPPort,
		User:                  a.cfg.SFTPUser,
		Pass:                  a.cfg.SFTPPass,
		RemoteDir:             a.cfg.SFTPDir,
		InsecureIgnoreHostKey: a.cfg.SFTPInsecureIgnoreHostKey,
		KnownHostsPath:        a.cfg.SFTPKnownHosts,
	}
	if err := sftpclient.UploadFile(a.ctx, sftpCfg, out, filepath.Base(out)); err != nil {
		return err
	}
	a.log.Info("catalog uploaded", "host", sftpCfg.Host, "dir", sftpCfg.RemoteDir, "file", filepath.Base(out))
	return nil
}
