package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/foxxcyber/turismo/internal/client"
	"github.com/foxxcyber/turismo/internal/models"
)

// Options wire the runner to a service and output streams.
type Options struct {
	Client *client.Client
	Out    io.Writer
	Err    io.Writer
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp(opt.Err)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Out)
		return 0
	case "ls":
		return doList(ctx, a, opt)
	case "get":
		if len(a) != 1 {
			return usage(opt, "usage: turismo get <id>")
		}
		return doGet(ctx, a[0], opt)
	case "add":
		return doAdd(ctx, a, opt)
	case "edit":
		if len(a) < 1 {
			return usage(opt, "usage: turismo edit <id> [flags]")
		}
		return doEdit(ctx, a[0], a[1:], opt)
	case "rm":
		if len(a) != 1 {
			return usage(opt, "usage: turismo rm <id>")
		}
		return doRemove(ctx, a[0], opt)
	case "communities":
		return doCommunities(ctx, opt)
	case "community":
		if len(a) == 0 {
			return usage(opt, "usage: turismo community <name...>")
		}
		return doCommunity(ctx, strings.Join(a, " "), opt)
	case "browse":
		if err := Browse(ctx, opt.Client); err != nil {
			return fail(opt, "browse", err)
		}
		return 0
	}

	fmt.Fprintln(opt.Err, errorStyle.Render("unknown subcommand: "+cmd))
	PrintHelp(opt.Err)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `turismo - tourism flow records client

Usage:
  turismo [-api URL] <subcommand> [args]

Subcommands:
  ls [-page N -size N] [-date YYYY-MM-DD]   List records, optionally one page or one start date
  get <id>                                  Show one record
  add [record flags]                        Add a record (-from-comunidad and -start are required)
  edit <id> [record flags]                  Replace a record's fields
  rm <id>                                   Delete a record
  communities                               List communities of the grouped index
  community <name...>                       List the grouped records of a community
  browse                                    Interactive table

Record flags:
  -from-comunidad -from-provincia -to-comunidad -to-provincia
  -start -end -period -total
`)
}

// -------------- subcommand impls ----------------

func doList(ctx context.Context, args []string, opt Options) int {
	fs := newFlagSet("ls", opt)
	page := fs.Int("page", -1, "page number, starting at 0")
	size := fs.Int("size", -1, "page size")
	date := fs.String("date", "", "only records starting on this date")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var p *client.Page
	if *page >= 0 && *size >= 0 {
		p = &client.Page{Page: *page, Size: *size}
	}

	records, err := opt.Client.List(ctx, p)
	if err != nil {
		return fail(opt, "ls", err)
	}
	records = client.FilterByStartDate(records, *date)
	if len(records) == 0 {
		fmt.Fprintln(opt.Out, mutedStyle.Render("No matching rows."))
		return 0
	}

	fmt.Fprintln(opt.Out, titleStyle.Render(fmt.Sprintf("Tourism records (%d)", len(records))))
	fmt.Fprintln(opt.Out, renderRecords(records))
	return 0
}

func doGet(ctx context.Context, id string, opt Options) int {
	rec, err := opt.Client.Get(ctx, id)
	if err != nil {
		return fail(opt, "get", err)
	}
	fmt.Fprintln(opt.Out, renderRecord(*rec))
	return 0
}

// recordFlags binds the per-field flags shared by add and edit.
type recordFlags struct {
	fromComunidad, fromProvincia *string
	toComunidad, toProvincia     *string
	start, end, period           *string
	total                        *int
}

func bindRecordFlags(fs *flag.FlagSet, base *models.Turismo) *recordFlags {
	def := func(l *models.Location) models.Location {
		if l == nil {
			return models.Location{}
		}
		return *l
	}
	from, to := def(base.From), def(base.To)
	tr := models.TimeRange{}
	if base.TimeRange != nil {
		tr = *base.TimeRange
	}

	return &recordFlags{
		fromComunidad: fs.String("from-comunidad", from.Comunidad, "origin community"),
		fromProvincia: fs.String("from-provincia", from.Provincia, "origin province"),
		toComunidad:   fs.String("to-comunidad", to.Comunidad, "destination community"),
		toProvincia:   fs.String("to-provincia", to.Provincia, "destination province"),
		start:         fs.String("start", tr.FechaInicio, "start date YYYY-MM-DD"),
		end:           fs.String("end", tr.FechaFin, "end date YYYY-MM-DD"),
		period:        fs.String("period", tr.Period, "period label, e.g. 2024M02"),
		total:         fs.Int("total", base.Total, "visitor total"),
	}
}

// record builds a record from the flags. Sides left entirely empty stay nil.
func (f *recordFlags) record() models.Turismo {
	loc := func(comunidad, provincia string) *models.Location {
		if comunidad == "" && provincia == "" {
			return nil
		}
		return &models.Location{Comunidad: comunidad, Provincia: provincia}
	}

	rec := models.Turismo{
		From:  loc(*f.fromComunidad, *f.fromProvincia),
		To:    loc(*f.toComunidad, *f.toProvincia),
		Total: *f.total,
	}
	if *f.start != "" || *f.end != "" || *f.period != "" {
		rec.TimeRange = &models.TimeRange{FechaInicio: *f.start, FechaFin: *f.end, Period: *f.period}
	}
	return rec
}

func doAdd(ctx context.Context, args []string, opt Options) int {
	fs := newFlagSet("add", opt)
	rf := bindRecordFlags(fs, &models.Turismo{})
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rec := rf.record()
	if rec.From == nil || rec.TimeRange == nil {
		return usage(opt, "add: origin and time range are required")
	}

	id, err := opt.Client.Create(ctx, &rec)
	if err != nil {
		return fail(opt, "add", err)
	}
	fmt.Fprintln(opt.Out, successStyle.Render("Record added: "+id))
	return 0
}

func doEdit(ctx context.Context, id string, args []string, opt Options) int {
	// Start from the stored record so unspecified flags keep their values.
	current, err := opt.Client.Get(ctx, id)
	if err != nil {
		return fail(opt, "edit", err)
	}

	fs := newFlagSet("edit", opt)
	rf := bindRecordFlags(fs, current)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rec := rf.record()
	msg, err := opt.Client.Update(ctx, id, &models.UpdateTurismoRequest{
		From:      rec.From,
		To:        rec.To,
		TimeRange: rec.TimeRange,
		Total:     rec.Total,
	})
	if err != nil {
		return fail(opt, "edit", err)
	}
	fmt.Fprintln(opt.Out, successStyle.Render(msg))
	return 0
}

func doRemove(ctx context.Context, id string, opt Options) int {
	msg, err := opt.Client.Delete(ctx, id)
	if err != nil {
		return fail(opt, "rm", err)
	}
	fmt.Fprintln(opt.Out, successStyle.Render(msg))
	return 0
}

func doCommunities(ctx context.Context, opt Options) int {
	names, err := opt.Client.Communities(ctx)
	if err != nil {
		return fail(opt, "communities", err)
	}
	for _, n := range names {
		fmt.Fprintln(opt.Out, n)
	}
	return 0
}

func doCommunity(ctx context.Context, name string, opt Options) int {
	records, err := opt.Client.ByCommunity(ctx, name)
	if err != nil {
		if client.IsNotFound(err) {
			fmt.Fprintln(opt.Out, mutedStyle.Render("No records found for community: "+name))
			return 1
		}
		return fail(opt, "community", err)
	}
	fmt.Fprintln(opt.Out, titleStyle.Render(name+" ("+strconv.Itoa(len(records))+")"))
	fmt.Fprintln(opt.Out, renderRecords(records))
	return 0
}

// -------------- helpers ----------------

func newFlagSet(name string, opt Options) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(opt.Err)
	return fs
}

func usage(opt Options, msg string) int {
	fmt.Fprintln(opt.Err, errorStyle.Render(msg))
	return 2
}

func fail(opt Options, cmd string, err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		fmt.Fprintln(opt.Err, errorStyle.Render(cmd+": "+apiErr.Message))
		return 1
	}
	fmt.Fprintln(opt.Err, errorStyle.Render(cmd+": "+err.Error()))
	return 1
}
