package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"decana/internal/apiclient"
	"decana/internal/config"
	"decana/internal/decision"
	"decana/internal/ident"
	"decana/internal/schema"
	"decana/internal/session"
	"decana/internal/store"
	"decana/internal/suggest"
	"decana/internal/types"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: decana <command> [flags]

commands:
  project   create | list | show | delete
  criteria  set | suggest | accept | edit | delete
  form      set | show | defaults
  submit    validate and evaluate one alternative
  refresh   predict results for criteria added after evaluation
  score     edit one must-have or want cell
  rank      print alternatives in display order
  remote    projects | results | choices | set-score | session  (backend mode)
  signin | signup | signout | whoami`)
	os.Exit(2)
}

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	a := &app{cfg: cfg, ctx: context.Background()}
	defer a.close()

	switch os.Args[1] {
	case "project":
		a.project(os.Args[2:])
	case "criteria":
		a.criteria(os.Args[2:])
	case "form":
		a.form(os.Args[2:])
	case "submit":
		a.submit(os.Args[2:])
	case "refresh":
		a.refresh(os.Args[2:])
	case "score":
		a.score(os.Args[2:])
	case "rank":
		a.rank(os.Args[2:])
	case "remote":
		a.remote(os.Args[2:])
	case "signin", "signup", "signout", "whoami":
		a.auth(os.Args[1], os.Args[2:])
	default:
		usage()
	}
}

type app struct {
	cfg *config.Config
	ctx context.Context

	st *store.Store
	wf *decision.Workflow
}

func (a *app) close() {
	if a.st != nil {
		_ = a.st.Close()
	}
}

func (a *app) workflow() *decision.Workflow {
	if a.wf != nil {
		return a.wf
	}
	a.st = store.NewFromEnv(a.cfg.WorkspacePath)
	a.wf = decision.New(a.st, a.suggester(), ident.UUID{})
	return a.wf
}

// suggester picks the AI collaborator: a direct Gemini provider when an API
// key is present, the remote backend when only an API URL is, else none.
func (a *app) suggester() suggest.Service {
	switch a.cfg.AI.Provider {
	case "gemini":
		cli, err := suggest.NewGeminiClient(a.ctx, a.cfg.AI.Model)
		if err != nil {
			log.Fatal(err)
		}
		return suggest.NewProvider(cli, suggest.ProviderOptions{
			Retries:   a.cfg.AI.Retries,
			CacheTTL:  a.cfg.AI.CacheTTL,
			CacheSize: 128,
		})
	case "remote":
		if a.cfg.APIURL == "" {
			return nil
		}
		return suggest.NewRemote(a.api())
	default:
		return nil
	}
}

func (a *app) api() *apiclient.Client {
	return apiclient.New(a.cfg.APIURL, session.NewStore(a.cfg.SessionPath))
}

// aiCtx bounds one AI-backed operation by the configured timeout.
func (a *app) aiCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(a.ctx, a.cfg.AI.Timeout)
}

// project --------------------------------------------------------------------

func (a *app) project(args []string) {
	if len(args) < 1 {
		usage()
	}
	fs := flag.NewFlagSet("project", flag.ExitOnError)
	name := fs.String("name", "", "project name")
	desc := fs.String("desc", "", "project description")
	id := fs.String("id", "", "project id")
	_ = fs.Parse(args[1:])

	wf := a.workflow()
	switch args[0] {
	case "create":
		p, err := wf.CreateProject(*name, *desc)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(p)
	case "list":
		printJSON(wf.ListProjects())
	case "show":
		p, err := wf.GetProject(*id)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(p)
	case "delete":
		if err := wf.DeleteProject(*id); err != nil {
			log.Fatal(err)
		}
	default:
		usage()
	}
}

// criteria -------------------------------------------------------------------

func (a *app) criteria(args []string) {
	if len(args) < 1 {
		usage()
	}
	fs := flag.NewFlagSet("criteria", flag.ExitOnError)
	id := fs.String("project", "", "project id")
	file := fs.String("file", "", "JSON file with criteria or suggestions")
	criterionID := fs.String("id", "", "criterion id")
	_ = fs.Parse(args[1:])

	wf := a.workflow()
	switch args[0] {
	case "set":
		var set types.CriteriaSet
		readJSONFile(*file, &set)
		saved, err := wf.SaveCriteria(*id, set)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(saved)
	case "suggest":
		ctx, cancel := a.aiCtx()
		defer cancel()
		s, err := wf.SuggestCriteria(ctx, *id)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(s)
	case "accept":
		var s types.CriteriaSuggestion
		readJSONFile(*file, &s)
		saved, err := wf.AcceptSuggestions(*id, s)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(saved)
	case "edit":
		var c types.Criterion
		readJSONFile(*file, &c)
		if *criterionID != "" {
			c.ID = *criterionID
		}
		if err := wf.UpdateCriterion(*id, c); err != nil {
			log.Fatal(err)
		}
	case "delete":
		if err := wf.DeleteCriterion(*id, *criterionID); err != nil {
			log.Fatal(err)
		}
	default:
		usage()
	}
}

// form -----------------------------------------------------------------------

func (a *app) form(args []string) {
	if len(args) < 1 {
		usage()
	}
	fs := flag.NewFlagSet("form", flag.ExitOnError)
	id := fs.String("project", "", "project id")
	file := fs.String("file", "", "JSON file with field definitions")
	_ = fs.Parse(args[1:])

	wf := a.workflow()
	switch args[0] {
	case "set":
		var fields []types.FieldDefinition
		readJSONFile(*file, &fields)
		s, err := wf.SaveFormSchema(*id, fields)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(s)
	case "show":
		p, err := wf.GetProject(*id)
		if err != nil {
			log.Fatal(err)
		}
		if p.FormSchema == nil {
			log.Fatal("no form schema saved")
		}
		printJSON(p.FormSchema)
	case "defaults":
		p, err := wf.GetProject(*id)
		if err != nil {
			log.Fatal(err)
		}
		if p.FormSchema == nil {
			log.Fatal("no form schema saved")
		}
		printJSON(schema.Defaults(*p.FormSchema))
	default:
		usage()
	}
}

// alternatives ---------------------------------------------------------------

func (a *app) submit(args []string) {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	id := fs.String("project", "", "project id")
	file := fs.String("file", "", "JSON file with form data")
	_ = fs.Parse(args)

	var data map[string]any
	readJSONFile(*file, &data)

	ctx, cancel := a.aiCtx()
	defer cancel()
	start := time.Now()
	alt, err := a.workflow().SubmitAlternative(ctx, *id, data)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("evaluated in %s", time.Since(start).Round(time.Millisecond))
	printJSON(alt)
}

func (a *app) refresh(args []string) {
	fs := flag.NewFlagSet("refresh", flag.ExitOnError)
	id := fs.String("project", "", "project id")
	_ = fs.Parse(args)

	ctx, cancel := a.aiCtx()
	defer cancel()
	alts, err := a.workflow().RefreshNewCriteria(ctx, *id)
	if err != nil {
		log.Fatal(err)
	}
	printJSON(alts)
}

func (a *app) score(args []string) {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	id := fs.String("project", "", "project id")
	altID := fs.String("alternative", "", "alternative id")
	criterionID := fs.String("criterion", "", "criterion id")
	pass := fs.Bool("pass", false, "must-have result (with -musthave)")
	mustHave := fs.Bool("musthave", false, "edit a must-have cell instead of a want score")
	value := fs.Int("value", 0, "want score, 0..5")
	_ = fs.Parse(args)

	wf := a.workflow()
	var err error
	if *mustHave {
		err = wf.SetMustHaveResult(*id, *altID, *criterionID, *pass)
	} else {
		err = wf.SetWantScore(*id, *altID, *criterionID, *value)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func (a *app) rank(args []string) {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	id := fs.String("project", "", "project id")
	_ = fs.Parse(args)

	alts, err := a.workflow().Rankings(*id)
	if err != nil {
		log.Fatal(err)
	}
	for i, alt := range alts {
		marker := " "
		if alt.Disqualified {
			marker = "x"
		}
		log.Printf("%2d %s %-36s %.2f", i+1, marker, alt.ID, alt.TotalScore)
	}
	printJSON(alts)
}

// remote ---------------------------------------------------------------------

// remote talks to the decision backend directly instead of the local
// workspace. The backend recomputes disqualification and totals itself.
func (a *app) remote(args []string) {
	if len(args) < 1 {
		usage()
	}
	if a.cfg.APIURL == "" {
		log.Fatal("DECANA_API_URL is not set")
	}
	fs := flag.NewFlagSet("remote", flag.ExitOnError)
	id := fs.String("project", "", "project id")
	criterionID := fs.String("criterion", "", "criterion id")
	choiceID := fs.String("choice", "", "choice id")
	value := fs.Int("value", 0, "score value")
	_ = fs.Parse(args[1:])

	api := a.api()
	switch args[0] {
	case "projects":
		projects, err := api.ListProjects(a.ctx)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(projects)
	case "results":
		results, err := api.ListResults(a.ctx, *id)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(results)
	case "choices":
		choices, err := api.ListChoices(a.ctx, *id)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(choices)
	case "set-score":
		if err := api.UpdateScore(a.ctx, *criterionID, *choiceID, *value); err != nil {
			log.Fatal(err)
		}
	case "session":
		info, err := api.GetSession(a.ctx)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(info)
	default:
		usage()
	}
}

// auth -----------------------------------------------------------------------

func (a *app) auth(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	sess := session.NewStore(a.cfg.SessionPath)
	api := apiclient.New(a.cfg.APIURL, sess)
	var err error

	switch cmd {
	case "signin", "signup":
		if cmd == "signup" {
			if err = api.SignUp(a.ctx, *email, *password); err != nil {
				log.Fatal(err)
			}
		}
		var info apiclient.SessionInfo
		info, err = api.SignIn(a.ctx, *email, *password)
		if err != nil {
			log.Fatal(err)
		}
		if err := sess.Save(session.Session{AccessToken: info.AccessToken, UserID: info.UserID, Email: info.Email}); err != nil {
			log.Fatal(err)
		}
		log.Printf("signed in as %s", info.Email)
	case "signout":
		if err := api.SignOut(a.ctx); err != nil {
			log.Print(err)
		}
		if err := sess.Clear(); err != nil {
			log.Fatal(err)
		}
	case "whoami":
		cur, ok := sess.Current()
		if !ok {
			log.Fatal("not signed in")
		}
		printJSON(cur)
	}
}

// helpers --------------------------------------------------------------------

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(b))
}

func readJSONFile(path string, v any) {
	if path == "" {
		log.Fatal("-file is required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		log.Fatal(err)
	}
}
