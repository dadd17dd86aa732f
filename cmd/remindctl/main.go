package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/valeriaulyamaeva/smart-reminder/client"
	"github.com/valeriaulyamaeva/smart-reminder/internal/view"
	"github.com/valeriaulyamaeva/smart-reminder/models"
)

const usage = `Usage: remindctl [-addr URL] [-no-color] <command> [args]

Commands:
  list   [-status all|active|completed]
  add    -title T -date YYYY-MM-DD -time HH:MM [-desc D]
  edit   ID [-title T] [-date D] [-time HH:MM] [-desc D]
  toggle ID
  delete ID
  stats
`

func main() {
	addr := flag.String("addr", envOr("REMINDERS_API", "http://localhost:8080"), "API base URL")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	f := view.NewFormatter(!*noColor, time.Now, time.Local)
	cache := client.NewCache(client.New(*addr), client.WithErrorHandler(func(op, msg string) {
		fmt.Fprintln(os.Stderr, f.Error(fmt.Sprintf("%s failed: %s", op, msg)))
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, cache, f, flag.Arg(0), flag.Args()[1:]); err != nil {
		if _, ok := err.(usageError); ok {
			fmt.Fprintln(os.Stderr, f.Error(err.Error()))
			flag.Usage()
			os.Exit(2)
		}
		// mutations already reported through the error hook
		if !isReported(err) {
			fmt.Fprintln(os.Stderr, f.Error(client.ErrorMessage(err)))
		}
		os.Exit(1)
	}
}

type usageError string

func (e usageError) Error() string { return string(e) }

type reportedError struct{ error }

func isReported(err error) bool {
	_, ok := err.(reportedError)
	return ok
}

func run(ctx context.Context, cache *client.Cache, f *view.Formatter, cmd string, args []string) error {
	switch cmd {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		status := fs.String("status", "all", "all, active or completed")
		if err := fs.Parse(args); err != nil {
			return usageError(err.Error())
		}
		filter, err := models.ParseStatusFilter(*status)
		if err != nil {
			return usageError(err.Error())
		}
		list, err := cache.Filtered(ctx, filter)
		if err != nil {
			return err
		}
		fmt.Println(f.List(list, filter))

	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		title := fs.String("title", "", "reminder title")
		date := fs.String("date", "", "due date, YYYY-MM-DD")
		clock := fs.String("time", "", "due time, HH:MM")
		desc := fs.String("desc", "", "optional description")
		if err := fs.Parse(args); err != nil {
			return usageError(err.Error())
		}
		payload := models.InsertReminder{Title: *title, Date: *date, Time: *clock}
		if *desc != "" {
			payload.Description = desc
		}
		r, err := cache.Create(ctx, payload)
		if err != nil {
			return reportedError{err}
		}
		fmt.Println(f.Success("Reminder created"))
		fmt.Println(f.Reminder(r))

	case "edit":
		id, rest, err := parseID(args)
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("edit", flag.ContinueOnError)
		fs.String("title", "", "new title")
		fs.String("date", "", "new due date")
		fs.String("time", "", "new due time")
		fs.String("desc", "", "new description, empty clears it")
		if err := fs.Parse(rest); err != nil {
			return usageError(err.Error())
		}
		var upd models.UpdateReminder
		// only flags given on the command line are sent
		fs.Visit(func(fl *flag.Flag) {
			v := fl.Value.String()
			switch fl.Name {
			case "title":
				upd.Title = &v
			case "date":
				upd.Date = &v
			case "time":
				upd.Time = &v
			case "desc":
				upd.Description = &v
			}
		})
		r, err := cache.Update(ctx, id, upd)
		if err != nil {
			return reportedError{err}
		}
		fmt.Println(f.Success("Reminder updated"))
		fmt.Println(f.Reminder(r))

	case "toggle":
		id, _, err := parseID(args)
		if err != nil {
			return err
		}
		r, err := cache.Toggle(ctx, id)
		if err != nil {
			return reportedError{err}
		}
		fmt.Println(f.Reminder(r))

	case "delete":
		id, _, err := parseID(args)
		if err != nil {
			return err
		}
		if err := cache.Delete(ctx, id); err != nil {
			return reportedError{err}
		}
		fmt.Println(f.Success(fmt.Sprintf("Reminder %d deleted", id)))

	case "stats":
		s, err := cache.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Println(f.Stats(s))

	default:
		return usageError(fmt.Sprintf("unknown command %q", cmd))
	}
	return nil
}

func parseID(args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, usageError("reminder ID is required")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return 0, nil, usageError(fmt.Sprintf("invalid reminder ID %q", args[0]))
	}
	return id, args[1:], nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
