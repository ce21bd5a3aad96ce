package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/and161185/contactbook/internal/errs"
	"github.com/and161185/contactbook/internal/export"
	"github.com/and161185/contactbook/internal/format"
	"github.com/and161185/contactbook/internal/model"
	"github.com/and161185/contactbook/internal/query"
	"github.com/and161185/contactbook/internal/sanitize"
	"github.com/and161185/contactbook/internal/store"
)

type cli struct {
	app    *app
	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	pdfFont string
}

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

func (c *cli) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		fs := c.flags("register")
		email := fs.String("e", "", "email")
		pass := fs.String("p", "", "password")
		confirm := fs.String("c", "", "confirm password")
		if err := fs.Parse(args); err != nil {
			return err
		}
		s, err := c.app.sessions.Register(ctx, *email, *pass, *confirm)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "registered and logged in as %s\n", s.Email)

	case "login":
		fs := c.flags("login")
		email := fs.String("e", "", "email")
		pass := fs.String("p", "", "password")
		if err := fs.Parse(args); err != nil {
			return err
		}
		s, err := c.app.sessions.Login(ctx, *email, *pass)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "logged in as %s\n", s.Email)

	case "logout":
		if err := c.app.sessions.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "ok")

	case "whoami":
		s := c.app.sessions.Current()
		if s == nil {
			return errs.ErrUnauthenticated
		}
		s.Token = ""
		c.printJSON(s)

	case "list":
		fs := c.flags("list")
		q := fs.String("q", "", "search text")
		cat := fs.String("category", string(model.CategoryAll), "category filter")
		asJSON := fs.Bool("json", false, "print JSON")
		if err := fs.Parse(args); err != nil {
			return err
		}
		cs, err := c.app.contacts.View(ctx, *q, model.Category(*cat))
		if err != nil {
			return err
		}
		c.printContacts(cs, *asJSON)

	case "get":
		fs := c.flags("get")
		id := fs.String("id", "", "contact id")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *id == "" {
			return errors.New("need -id")
		}
		ct, err := c.app.contacts.Get(ctx, *id)
		if err != nil {
			return err
		}
		c.printJSON(ct)

	case "add":
		fs := c.flags("add")
		ff := addFieldFlags(fs)
		if err := fs.Parse(args); err != nil {
			return err
		}
		ct, err := c.app.contacts.Add(ctx, ff.form())
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, ct.ID)

	case "edit":
		fs := c.flags("edit")
		id := fs.String("id", "", "contact id")
		ff := addFieldFlags(fs)
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *id == "" {
			return errors.New("need -id")
		}
		ct, err := c.app.contacts.Edit(ctx, *id, ff.form())
		if err != nil {
			return err
		}
		c.printJSON(ct)

	case "rm":
		fs := c.flags("rm")
		id := fs.String("id", "", "contact id")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *id == "" {
			return errors.New("need -id")
		}
		if err := c.app.contacts.Remove(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "ok")

	case "search":
		fs := c.flags("search")
		q := fs.String("q", "", "search text")
		asJSON := fs.Bool("json", false, "print JSON")
		if err := fs.Parse(args); err != nil {
			return err
		}
		cs, err := c.app.contacts.Search(ctx, *q)
		if err != nil {
			return err
		}
		c.printContacts(cs, *asJSON)

	case "stats":
		cs, err := c.app.contacts.List(ctx)
		if err != nil {
			return err
		}
		type recentRow struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Updated string `json:"updated"`
		}
		out := struct {
			query.Stats
			Categories []model.Category `json:"categories"`
			Recent     []recentRow      `json:"recent"`
		}{Stats: query.Summarize(cs), Categories: query.Categories(cs), Recent: []recentRow{}}
		for _, ct := range query.Head(cs, 5) {
			out.Recent = append(out.Recent, recentRow{ct.ID, ct.FullName(), format.Relative(ct.UpdatedAt, c.now())})
		}
		c.printJSON(out)

	case "recent":
		fs := c.flags("recent")
		days := fs.Int("days", 7, "created within the last N days")
		asJSON := fs.Bool("json", false, "print JSON")
		if err := fs.Parse(args); err != nil {
			return err
		}
		cs, err := c.app.contacts.List(ctx)
		if err != nil {
			return err
		}
		c.printContacts(query.Recent(cs, *days, c.now()), *asJSON)

	case "export":
		fs := c.flags("export")
		fmtName := fs.String("format", "csv", "csv|json|pdf")
		outPath := fs.String("o", "", "output file ('-' = stdout, default contacts_<date>.<ext>)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return c.export(ctx, *fmtName, *outPath)

	case "demo":
		if c.app.sessions.Current() == nil {
			return errs.ErrUnauthenticated
		}
		seeded, err := c.app.store.Seed(ctx, store.SampleContacts())
		if err != nil {
			return err
		}
		if !seeded {
			fmt.Fprintln(c.out, "contacts already exist, nothing seeded")
			return nil
		}
		if _, err := c.app.contacts.Reload(ctx); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "seeded %d sample contacts\n", len(store.SampleContacts()))

	default:
		usage(c.errOut)
		return errUsage
	}
	return nil
}

func (c *cli) export(ctx context.Context, name, path string) error {
	f, err := export.ParseFormat(name)
	if err != nil {
		return err
	}
	cs, err := c.app.contacts.List(ctx)
	if err != nil {
		return err
	}
	var opts []export.PDFOption
	if c.pdfFont != "" {
		opts = append(opts, export.WithUTF8Font(c.pdfFont))
	}
	if path == "-" {
		return export.Write(c.out, f, cs, opts...)
	}
	if path == "" {
		path = export.FileName(f, c.now())
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := export.Write(file, f, cs, opts...); err != nil {
		_ = file.Close()
		return fmt.Errorf("export %s: %w", f, err)
	}
	if err := file.Close(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "exported %d contacts to %s\n", len(cs), path)
	return nil
}

// ---- field flags ----

type fieldFlags struct {
	fs   *flag.FlagSet
	vals map[string]*string
}

var fieldNames = []string{"first", "last", "email", "phone", "company", "title", "address", "notes", "category", "tags"}

func addFieldFlags(fs *flag.FlagSet) *fieldFlags {
	ff := &fieldFlags{fs: fs, vals: map[string]*string{}}
	for _, n := range fieldNames {
		ff.vals[n] = fs.String(n, "", n)
	}
	return ff
}

// form returns a form holding only the flags given on the command line.
func (ff *fieldFlags) form() sanitize.Form {
	set := map[string]bool{}
	ff.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	get := func(n string) *string {
		if !set[n] {
			return nil
		}
		return ff.vals[n]
	}
	f := sanitize.Form{
		FirstName: get("first"),
		LastName:  get("last"),
		Email:     get("email"),
		Phone:     get("phone"),
		Company:   get("company"),
		JobTitle:  get("title"),
		Address:   get("address"),
		Notes:     get("notes"),
		Category:  get("category"),
	}
	if t := get("tags"); t != nil {
		f.Tags = strings.Split(*t, ",")
	}
	return f
}

// ---- output ----

func (c *cli) printJSON(v any) {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (c *cli) printContacts(cs []model.Contact, asJSON bool) {
	if asJSON {
		c.printJSON(cs)
		return
	}
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tCOMPANY\tCATEGORY\tUPDATED")
	for _, ct := range cs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			ct.ID, ct.FullName(), ct.Email, ct.Phone, ct.Company,
			format.Capitalize(string(ct.EffectiveCategory())), format.Relative(ct.UpdatedAt, c.now()))
	}
	_ = tw.Flush()
}
