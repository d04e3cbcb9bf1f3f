package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/fadilmartias/atobs/internal/client"
	"github.com/fadilmartias/atobs/internal/config"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
)

const usage = `atsctl talks to the ATS API.

Usage:
  atsctl login -email <email> [-password <password>]
  atsctl jobs [-status open|on_hold|closed] [-search text]
  atsctl apps [-stage stage] [-job id] [-visa status] [-search text] [-page n] [-limit n]
  atsctl stage -id <application id> -to <stage> -note <text>
  atsctl overview

The API base URL comes from ATOBS_API_URL and the access token from
ATOBS_TOKEN.`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(2)
	}

	api := client.New(config.LoadClientConfig())
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "login":
		err = login(ctx, api, args)
	case "jobs":
		err = jobs(ctx, api, args)
	case "apps":
		err = apps(ctx, api, args)
	case "stage":
		err = stage(ctx, api, args)
	case "overview":
		err = overview(ctx, api)
	default:
		color.Red("Unknown command %q", cmd)
		fmt.Println(usage)
		os.Exit(2)
	}
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func login(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", os.Getenv("ATOBS_PASSWORD"), "account password")
	_ = fs.Parse(args)
	if *email == "" || *password == "" {
		return fmt.Errorf("email and password are required")
	}

	out, err := api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	color.Green("Logged in as %s (%s)", out.User.FullName, out.User.Role)
	fmt.Printf("export ATOBS_TOKEN=%s\n", out.AccessToken)
	return nil
}

func jobs(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("jobs", flag.ExitOnError)
	status := fs.String("status", "", "job status filter")
	search := fs.String("search", "", "title or department search")
	_ = fs.Parse(args)

	list, err := api.Jobs(ctx, *status, *search)
	if err != nil {
		return err
	}

	color.Cyan("\n=== Jobs (%d) ===", len(list))
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Title", "Status", "Published", "Total", "Unprocessed", "Hired", "Rejected"})
	for _, j := range list {
		table.Append([]string{
			j.ID.String(),
			j.Title,
			statusLabel(j.Status),
			strconv.FormatBool(j.IsPublished),
			strconv.Itoa(j.Stats.Total),
			strconv.Itoa(j.Stats.Unprocessed),
			strconv.Itoa(j.Stats.Hired),
			strconv.Itoa(j.Stats.Rejected),
		})
	}
	table.Render()
	return nil
}

func statusLabel(s model.JobStatus) string {
	switch s {
	case model.JobStatusOpen:
		return color.GreenString(string(s))
	case model.JobStatusOnHold:
		return color.YellowString(string(s))
	default:
		return color.RedString(string(s))
	}
}

func apps(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("apps", flag.ExitOnError)
	q := client.ApplicationQuery{}
	fs.StringVar(&q.Stage, "stage", "", "pipeline stage")
	fs.StringVar(&q.JobID, "job", "", "job id")
	fs.StringVar(&q.VisaStatus, "visa", "", "candidate visa status")
	fs.StringVar(&q.Search, "search", "", "candidate search")
	fs.IntVar(&q.Page, "page", 1, "page number")
	fs.IntVar(&q.Limit, "limit", 20, "page size")
	_ = fs.Parse(args)

	list, page, err := api.Applications(ctx, q)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Candidate", "Job", "Stage", "Processed", "Notes", "Docs", "Applied"})
	for _, a := range list {
		candidate, job := "", ""
		if a.Candidate != nil {
			candidate = a.Candidate.FirstName + " " + a.Candidate.LastName
		}
		if a.Job != nil {
			job = a.Job.Title
		}
		table.Append([]string{
			a.ID.String(),
			candidate,
			job,
			string(a.Stage),
			strconv.FormatBool(a.IsProcessed),
			strconv.FormatInt(a.NoteCount, 10),
			strconv.FormatInt(a.DocumentCount, 10),
			a.AppliedAt.Format("2006-01-02"),
		})
	}
	table.Render()
	if page != nil {
		color.Yellow("Page %d of %d (%d applications)", page.Page, page.TotalPages, page.TotalItems)
	}
	return nil
}

func stage(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("stage", flag.ExitOnError)
	id := fs.String("id", "", "application id")
	to := fs.String("to", "", "target stage")
	note := fs.String("note", "", "note explaining the move")
	_ = fs.Parse(args)
	if *id == "" || *to == "" {
		return fmt.Errorf("-id and -to are required")
	}
	if !model.Stage(*to).Valid() {
		return fmt.Errorf("unknown stage %q", *to)
	}

	app, err := api.ChangeStage(ctx, *id, *to, *note)
	if err != nil {
		return err
	}
	color.Green("Application %s is now %s", app.ID, app.Stage)
	return nil
}

func overview(ctx context.Context, api *client.Client) error {
	o, err := api.Overview(ctx)
	if err != nil {
		return err
	}

	color.Cyan("\n=== Pipeline overview ===")
	summary := tablewriter.NewWriter(os.Stdout)
	summary.SetHeader([]string{"Metric", "Value"})
	summary.AppendBulk([][]string{
		{"Jobs (open / on hold / closed)", fmt.Sprintf("%d / %d / %d", o.OpenJobs, o.OnHoldJobs, o.ClosedJobs)},
		{"Candidates", strconv.FormatInt(o.TotalCandidates, 10)},
		{"Applications", strconv.Itoa(o.Total)},
		{"Unprocessed", strconv.Itoa(o.Unprocessed)},
		{"This month", strconv.Itoa(o.ThisMonth)},
		{"Interview rate", percent(o.Conversion.Interview)},
		{"Submission rate", percent(o.Conversion.Submission)},
		{"Offer rate", percent(o.Conversion.Offer)},
		{"Hire rate", percent(o.Conversion.Hire)},
	})
	summary.Render()

	color.Yellow("\nApplications by stage")
	byStage := tablewriter.NewWriter(os.Stdout)
	byStage.SetHeader([]string{"Stage", "Count"})
	stages := make([]string, 0, len(o.StageCounts))
	for s := range o.StageCounts {
		stages = append(stages, string(s))
	}
	sort.Slice(stages, func(i, j int) bool { return stageIndex(stages[i]) < stageIndex(stages[j]) })
	for _, s := range stages {
		byStage.Append([]string{s, strconv.Itoa(o.StageCounts[model.Stage(s)])})
	}
	byStage.Render()
	return nil
}

func stageIndex(s string) int {
	for i, st := range model.Stages {
		if string(st) == s {
			return i
		}
	}
	return len(model.Stages)
}

func percent(r *float64) string {
	if r == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *r*100)
}
