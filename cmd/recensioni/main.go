package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Max-Caria/Reiterstube-Recensioni/internal/ai"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/app"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/config"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/directory"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/photos"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/quota"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/review"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/search"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/session"
	"github.com/Max-Caria/Reiterstube-Recensioni/internal/store"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	var (
		kv     store.KV
		marker session.Marker
	)
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = client.Ping(pingCtx).Err()
	cancel()
	if err != nil {
		log.Printf("WARNING: redis unreachable (%v), falling back to in-memory storage; data will not survive restarts", err)
		client.Close()
		kv = store.NewMemoryKV()
		marker = session.NewMemoryMarker()
	} else {
		log.Printf("Using Redis for workspace storage")
		defer client.Close()
		kv = store.NewRedisKVWithClient(client)
		marker = session.NewRedisMarker(client, cfg.SessionTTL)
	}

	var dir directory.Directory
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		db, err := directory.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer db.Close()
		dir = directory.NewPostgres(db)
		log.Printf("Using PostgreSQL tenant directory")
	} else {
		dir, err = directory.NewStatic(directory.PilotRoster())
		if err != nil {
			log.Fatalf("pilot roster invalid: %v", err)
		}
	}

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient)

	var photoStore photos.Store
	if strings.TrimSpace(cfg.MinioEndpoint) != "" {
		photoStore, err = photos.NewMinio(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.Fatalf("object storage unavailable: %v", err)
		}
	} else {
		photoStore = photos.NewMemory()
	}

	var gen ai.Client
	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		gen = ai.NewGemini(cfg.GeminiAPIKey)
	} else {
		log.Printf("GEMINI_API_KEY not set: using the offline canned generator")
		gen = ai.NewCanned()
	}

	ws := store.NewWorkspace(kv)
	meter := quota.NewMeter(ws, quota.CalendarMonthPeriod{})
	resolver := session.NewResolver(dir, ws, marker, meter)
	service := app.New(cfg, resolver, ws, meter, gen, searchService, photoStore)

	c := &cli{service: service, out: os.Stdout}
	c.restore(ctx)
	c.run(ctx, os.Stdin)
}

type cli struct {
	service *app.Service
	out     *os.File
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *cli) restore(ctx context.Context) {
	ws, err := c.service.Restore(ctx)
	if errors.Is(err, app.ErrStorageUnavailable) {
		c.printf("! storage unavailable, the session runs on defaults")
		err = nil
	}
	if err != nil {
		log.Printf("restore failed: %v", err)
		return
	}
	if ws != nil {
		c.printf("Bentornato, %s.", ws.Tenant.Name)
		c.status()
	}
}

func (c *cli) run(ctx context.Context, in *os.File) {
	c.printf("recensioni console; 'help' for commands, 'quit' to exit")
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]
		if cmd == "quit" || cmd == "exit" {
			return
		}
		c.dispatch(ctx, scanner, cmd, args)
	}
}

func (c *cli) dispatch(ctx context.Context, scanner *bufio.Scanner, cmd string, args []string) {
	var err error
	switch cmd {
	case "help":
		c.help()
	case "login":
		err = c.login(ctx, args)
	case "logout":
		err = c.service.Logout(ctx)
	case "status", "usage":
		err = c.status()
	case "list":
		err = c.list(args)
	case "add":
		err = c.add(ctx, scanner)
	case "paste":
		err = c.paste(ctx, scanner)
	case "reply":
		err = c.reply(ctx, args)
	case "approve":
		err = c.approve(ctx, scanner, args)
	case "reopen":
		err = c.reopen(ctx, args)
	case "sync":
		err = c.sync(ctx)
	case "identity":
		err = c.identity(ctx, scanner, args)
	case "profile":
		err = c.profile(ctx, args)
	case "dish":
		err = c.dish(ctx, scanner)
	case "post":
		err = c.post(ctx, args)
	case "qna":
		err = c.qna(ctx)
	case "photo":
		err = c.photo(ctx, args)
	case "search":
		err = c.search(args)
	default:
		c.printf("unknown command %q; 'help' lists commands", cmd)
	}
	if err != nil {
		c.report(err)
	}
}

func (c *cli) report(err error) {
	switch {
	case errors.Is(err, app.ErrNotAuthenticated):
		c.printf("! not logged in; use: login <code>")
	case errors.Is(err, app.ErrQuotaExhausted):
		c.printf("! monthly credit limit reached; the quota resets next month")
	case errors.Is(err, app.ErrStorageUnavailable):
		c.printf("! change applied in memory only: storage is unavailable")
	case errors.Is(err, app.ErrReviewNotFound):
		c.printf("! no review with that id")
	case errors.Is(err, session.ErrInvalidCredential):
		c.printf("! access code not recognized")
	default:
		c.printf("! %v", err)
	}
}

func (c *cli) help() {
	c.printf(`commands:
  login <code>        enter a workspace with an access code
  logout              leave the workspace (data stays persisted)
  status              plan, credits and review counts
  list [pending|replied|all]
  add                 manual review entry (prompted)
  paste               paste raw review text for extraction
  reply <id> [formal|informal|friendly|concise] [it|en|de]
  approve <id>        publish the stored draft as the reply
  reopen <id>         return a replied review to pending
  sync                import one platform review
  identity [set]      show or edit the brand identity
  profile [location] [cuisine]
  dish                menu description (prompted)
  post <update|offer|event> <details...>
  qna                 suggested listing Q&A
  photo <path> [natural|warm|bright|dramatic|hdr]
  search <text...>
  quit`)
}

func (c *cli) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: login <code>")
	}
	ws, err := c.service.Login(ctx, args[0])
	if errors.Is(err, app.ErrStorageUnavailable) {
		c.printf("! storage unavailable, the session runs on defaults")
		err = nil
	}
	if err != nil {
		return err
	}
	c.printf("Benvenuto, %s.", ws.Tenant.Name)
	return c.status()
}

func (c *cli) status() error {
	d, err := c.service.Dashboard()
	if err != nil {
		return err
	}
	c.printf("%s [%s] — crediti %d/%d (%s)", d.TenantName, d.PlanName, d.CreditsUsed, d.CreditsLimit, d.PeriodKey)
	c.printf("recensioni: %d totali, %d da rispondere, %d risposte", d.Total, d.Pending, d.Replied)
	if d.Degraded {
		c.printf("! running on in-memory data: storage is unavailable")
	}
	return nil
}

func (c *cli) list(args []string) error {
	filter := review.FilterAll
	if len(args) > 0 {
		filter = review.Filter(args[0])
	}
	reviews, err := c.service.Reviews(filter)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		c.printf("(nessuna recensione)")
		return nil
	}
	for _, r := range reviews {
		c.printReview(r)
	}
	return nil
}

func (c *cli) printReview(r review.Review) {
	marker := " "
	if r.Status == review.StatusReplied {
		marker = "✓"
	}
	c.printf("[%s] %s %d★ %s (%s, %s)", r.ID, marker, r.Rating, r.Author, r.Source, r.Date)
	c.printf("    %s", r.Text)
	if r.Reply != "" {
		c.printf("    ↳ %s", r.Reply)
	}
}

func (c *cli) prompt(scanner *bufio.Scanner, label string) string {
	fmt.Fprintf(c.out, "%s: ", label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func (c *cli) add(ctx context.Context, scanner *bufio.Scanner) error {
	author := c.prompt(scanner, "autore")
	ratingText := c.prompt(scanner, "voto (1-5)")
	rating, err := strconv.Atoi(ratingText)
	if err != nil {
		return fmt.Errorf("voto must be a number between 1 and 5")
	}
	text := c.prompt(scanner, "testo")
	r, err := c.service.AddReview(ctx, text, review.SourceManual, author, rating)
	if err != nil {
		return err
	}
	c.printf("aggiunta recensione %s", r.ID)
	return nil
}

func (c *cli) paste(ctx context.Context, scanner *bufio.Scanner) error {
	c.printf("incolla il testo, linea vuota per terminare:")
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	raw := strings.Join(lines, "\n")
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("nothing pasted")
	}

	parsed, err := c.service.ParseRawReview(ctx, raw)
	var parseErr *app.ParseError
	if errors.As(err, &parseErr) {
		c.printf("! extraction failed (%v); use 'add' for manual entry", parseErr.Err)
		return nil
	}
	if err != nil {
		return err
	}
	c.printf("estratto: %s, %d★, %s, %q", parsed.Author, parsed.Rating, parsed.Source, parsed.Text)
	if c.prompt(scanner, "importare? (s/n)") != "s" {
		c.printf("annullato")
		return nil
	}
	r, err := c.service.AddParsed(ctx, parsed)
	if err != nil {
		return err
	}
	c.printf("importata recensione %s", r.ID)
	return nil
}

func (c *cli) reply(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: reply <id> [tone] [lang]")
	}
	tone := ai.ToneFriendly
	if len(args) > 1 {
		tone = ai.Tone(args[1])
	}
	lang := ai.LangItalian
	if len(args) > 2 {
		lang = ai.Language(args[2])
	}
	draft, err := c.service.GenerateReply(ctx, args[0], tone, lang)
	var genErr *app.GenerationError
	if errors.As(err, &genErr) {
		c.printf("! generation failed (%v); the credit may have been consumed", genErr.Err)
		return nil
	}
	if errors.Is(err, app.ErrStorageUnavailable) {
		c.printf("! draft kept in memory only: storage is unavailable")
		err = nil
	}
	if err != nil {
		return err
	}
	c.printf("bozza:\n%s", draft)
	c.printf("usa 'approve %s' per pubblicarla", args[0])
	return nil
}

func (c *cli) approve(ctx context.Context, scanner *bufio.Scanner, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: approve <id>")
	}
	reviews, err := c.service.Reviews(review.FilterAll)
	if err != nil {
		return err
	}
	var draft string
	found := false
	for _, r := range reviews {
		if r.ID == args[0] {
			draft, found = r.Reply, true
			break
		}
	}
	if !found {
		return app.ErrReviewNotFound
	}
	if draft == "" {
		draft = c.prompt(scanner, "nessuna bozza; testo della risposta")
		if draft == "" {
			return fmt.Errorf("empty reply")
		}
	}
	if err := c.service.MarkReplied(ctx, args[0], draft); err != nil {
		return err
	}
	c.printf("risposta pubblicata per %s", args[0])
	return nil
}

func (c *cli) reopen(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: reopen <id>")
	}
	if err := c.service.ReopenReview(ctx, args[0]); err != nil {
		return err
	}
	c.printf("recensione %s riaperta", args[0])
	return nil
}

func (c *cli) sync(ctx context.Context) error {
	r, err := c.service.SimulateSync(ctx)
	if err != nil {
		return err
	}
	c.printf("nuova recensione dalla piattaforma:")
	c.printReview(r)
	return nil
}

func (c *cli) identity(ctx context.Context, scanner *bufio.Scanner, args []string) error {
	if len(args) > 0 && args[0] == "set" {
		id := directory.BrandIdentity{
			Vision:  c.prompt(scanner, "visione"),
			Values:  c.prompt(scanner, "valori"),
			History: c.prompt(scanner, "storia"),
		}
		if err := c.service.SaveIdentity(ctx, id); err != nil {
			return err
		}
		c.printf("identità salvata")
		return nil
	}

	id, err := c.service.Identity()
	if err != nil {
		return err
	}
	if id == nil {
		c.printf("(nessuna identità; usa 'identity set')")
		return nil
	}
	c.printf("visione: %s\nvalori:  %s\nstoria:  %s", id.Vision, id.Values, id.History)
	return nil
}

func (c *cli) profile(ctx context.Context, args []string) error {
	var location, cuisine string
	if len(args) > 0 {
		location = args[0]
	}
	if len(args) > 1 {
		cuisine = strings.Join(args[1:], " ")
	}
	result, err := c.service.OptimizeProfile(ctx, location, cuisine)
	if err != nil {
		return err
	}
	c.printf("descrizione:\n%s", result.Description)
	if len(result.Keywords) > 0 {
		c.printf("parole chiave: %s", strings.Join(result.Keywords, ", "))
	}
	return nil
}

func (c *cli) dish(ctx context.Context, scanner *bufio.Scanner) error {
	name := c.prompt(scanner, "piatto")
	ingredients := c.prompt(scanner, "ingredienti")
	style := ai.DishStyle(c.prompt(scanner, "stile (gourmet/rustic/simple)"))
	text, err := c.service.DescribeDish(ctx, name, ingredients, style)
	if err != nil {
		return err
	}
	c.printf("%s", text)
	return nil
}

func (c *cli) post(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: post <update|offer|event> <details...>")
	}
	text, err := c.service.CreatePost(ctx, ai.PostTopic(args[0]), strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	c.printf("%s", text)
	return nil
}

func (c *cli) qna(ctx context.Context) error {
	pairs, err := c.service.GenerateQnA(ctx)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		c.printf("D: %s\nR: %s", p.Question, p.Answer)
	}
	return nil
}

func (c *cli) photo(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: photo <path> [style]")
	}
	img, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read photo: %w", err)
	}
	style := ai.StyleWarm
	if len(args) > 1 {
		style = ai.PhotoStyle(args[1])
	}
	mimeType := "image/jpeg"
	if strings.EqualFold(filepath.Ext(args[0]), ".png") {
		mimeType = "image/png"
	}

	result, err := c.service.EnhancePhoto(ctx, img, mimeType, style)
	var genErr *app.GenerationError
	if errors.As(err, &genErr) {
		c.printf("! enhancement failed (%v); the original was kept", genErr.Err)
		return nil
	}
	if err != nil {
		return err
	}
	outPath := strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".enhanced.png"
	if err := os.WriteFile(outPath, result.Image, 0o644); err != nil {
		return fmt.Errorf("write enhanced photo: %w", err)
	}
	c.printf("foto migliorata salvata in %s", outPath)
	return nil
}

func (c *cli) search(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: search <text...>")
	}
	results, err := c.service.SearchReviews(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(results) == 0 {
		c.printf("(nessun risultato)")
		return nil
	}
	for _, r := range results {
		c.printReview(r)
	}
	return nil
}
