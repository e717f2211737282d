package main

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-shiori/go-readability"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lucianomartinezm628-prog/isomorph/pkg/command"
	"github.com/lucianomartinezm628-prog/isomorph/pkg/config"
	"github.com/lucianomartinezm628-prog/isomorph/pkg/engine"
	"github.com/lucianomartinezm628-prog/isomorph/pkg/glossary"
	"github.com/lucianomartinezm628-prog/isomorph/pkg/proposal"
	"github.com/lucianomartinezm628-prog/isomorph/pkg/resolve"
	"github.com/lucianomartinezm628-prog/isomorph/pkg/store"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	urlFlag := flag.String("url", "", "URL to fetch and translate")
	fileFlag := flag.String("file", "", "Path to a source text file to translate")
	textFlag := flag.String("text", "", "Source text to translate")
	dbFlag := flag.String("db", "", "Path to SQLite database (overrides config)")
	lexFlag := flag.String("lexicon", "", "Path to a YAML root lexicon (overrides config)")
	annotateFlag := flag.Bool("annotate", false, "Ask the AI provider for proposals instead of translating locally")
	exportFlag := flag.String("export", "", "Export the glossary (json|csv|txt) and exit")
	outFlag := flag.String("out", "", "Write export output to this file instead of stdout")
	verboseFlag := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := buildLogger(cfg.Log.Level, *verboseFlag)
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dbPath := cfg.Database.Path
	if *dbFlag != "" {
		dbPath = *dbFlag
	}
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer conn.Close()

	if err := store.Init(conn); err != nil {
		logger.Fatal("initialize database", zap.Error(err))
	}
	g, err := store.Load(conn)
	if err != nil {
		logger.Fatal("load glossary", zap.Error(err))
	}
	logger.Info("glossary loaded", zap.String("db", dbPath), zap.Int("entries", g.Len()))

	lexicon := resolve.DefaultLexicon()
	lexPath := cfg.Lexicon.Path
	if *lexFlag != "" {
		lexPath = *lexFlag
	}
	if lexPath != "" {
		lexicon, err = resolve.LoadLexicon(lexPath)
		if err != nil {
			logger.Fatal("load lexicon", zap.Error(err))
		}
		logger.Info("lexicon loaded", zap.String("path", lexPath), zap.Int("roots", len(lexicon)))
	}

	eng := engine.New(g, resolve.NewCoreResolver(lexicon), logger)

	if *exportFlag != "" {
		if err := runExport(g, *exportFlag, *outFlag); err != nil {
			logger.Fatal("export", zap.Error(err))
		}
		return
	}

	text, err := gatherText(ctx, *urlFlag, *fileFlag, *textFlag)
	if err != nil {
		logger.Fatal("read input", zap.Error(err))
	}

	if *annotateFlag {
		if text == "" {
			logger.Fatal("annotate mode needs -url, -file or -text")
		}
		if err := runAnnotate(ctx, cfg, g, text); err != nil {
			logger.Fatal("annotate", zap.Error(err))
		}
		if err := store.Save(conn, g); err != nil {
			logger.Fatal("save glossary", zap.Error(err))
		}
		return
	}

	if text != "" {
		out, err := eng.Translate(text)
		if err != nil {
			logger.Fatal("translate", zap.Error(err))
		}
		fmt.Println(out)
		fmt.Println(eng.State().Report())
		if err := store.Save(conn, g); err != nil {
			logger.Fatal("save glossary", zap.Error(err))
		}
		return
	}

	runREPL(ctx, conn, eng, logger)
}

func buildLogger(level string, verbose bool) *zap.Logger {
	config := zap.NewProductionConfig()
	lvl := zapcore.InfoLevel
	if err := lvl.Set(level); err != nil {
		lvl = zapcore.InfoLevel
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := config.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// gatherText resolves the three input flags into source text. At most one of
// them may be set.
func gatherText(ctx context.Context, urlFlag, fileFlag, textFlag string) (string, error) {
	set := 0
	for _, f := range []string{urlFlag, fileFlag, textFlag} {
		if f != "" {
			set++
		}
	}
	if set > 1 {
		return "", fmt.Errorf("use only one of -url, -file, -text")
	}

	switch {
	case urlFlag != "":
		return fetchArticle(ctx, urlFlag)
	case fileFlag != "":
		data, err := os.ReadFile(fileFlag)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return textFlag, nil
	}
}

// fetchArticle downloads a page and extracts its readable text content.
func fetchArticle(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	// Mimic a real browser to avoid being blocked (403 / Cloudflare).
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9,ar;q=0.8")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("got status code %d", resp.StatusCode)
	}

	// Size limit to prevent OOM from untrusted URLs.
	const maxBodySize = 10 * 1024 * 1024
	if resp.ContentLength > int64(maxBodySize) {
		return "", fmt.Errorf("content length %d exceeds limit of %d bytes", resp.ContentLength, maxBodySize)
	}
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	if int64(len(bodyBytes)) >= int64(maxBodySize) {
		return "", fmt.Errorf("response body exceeded maximum size of %d bytes", maxBodySize)
	}

	parsedURL, _ := url.Parse(rawURL)
	article, err := readability.FromReader(bytes.NewReader(bodyBytes), parsedURL)
	if err != nil {
		return "", fmt.Errorf("extract article: %w", err)
	}
	return article.TextContent, nil
}

func runExport(g *glossary.Glossary, format, out string) error {
	var f glossary.Format
	switch strings.ToLower(format) {
	case "json":
		f = glossary.FormatJSON
	case "csv":
		f = glossary.FormatCSV
	case "txt":
		f = glossary.FormatText
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	data, err := g.Export(f)
	if err != nil {
		return err
	}
	if out == "" {
		fmt.Println(data)
		return nil
	}
	return os.WriteFile(out, []byte(data), 0o644)
}

func runAnnotate(ctx context.Context, cfg *config.Config, g *glossary.Glossary, text string) error {
	provider, err := proposal.NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return err
	}

	current := make(map[string]string)
	for _, e := range g.Entries() {
		if e.Status == glossary.Assigned {
			current[e.Source] = e.Target
		}
	}

	proposals, err := provider.Propose(ctx, text, current)
	if err != nil {
		return err
	}

	annotations, err := proposal.Reconcile(g, proposals)
	if err != nil {
		return err
	}
	for _, a := range annotations {
		switch a.Verdict {
		case proposal.Conflict:
			fmt.Printf("CONFLICT %s: glossary has %q, provider proposed %q\n", a.Proposal.Source, a.Kept, a.Proposal.Target)
		case proposal.Skipped:
			fmt.Printf("SKIPPED  %s\n", a.Proposal.Source)
		default:
			fmt.Printf("%-9s %s -> %s\n", a.Verdict, a.Proposal.Source, a.Proposal.Target)
		}
	}
	fmt.Printf("%d proposals processed\n", len(annotations))
	return nil
}

// isCommand marks lines handled by the command processor rather than
// translated: bracketed forms like [STATUS], or an upper-case leading verb.
func isCommand(line string) bool {
	if strings.HasPrefix(line, "[") {
		return true
	}
	verb, _, _ := strings.Cut(line, " ")
	return verb != "" && verb == strings.ToUpper(verb) && verb != strings.ToLower(verb)
}

func runREPL(ctx context.Context, conn *sql.DB, eng *engine.Engine, logger *zap.Logger) {
	proc := command.NewProcessor(eng.Glossary(), eng.State())
	proc.SetCallback("RESET", func() {
		logger.Info("system reset requested")
	})

	fmt.Println("Isomorph interactive mode. Type HELP for commands, 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		select {
		case <-ctx.Done():
			saveAndClose(conn, eng, logger)
			return
		default:
		}

		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "salir" {
			break
		}

		if proc.Pending() || isCommand(line) {
			res := proc.Process(line)
			fmt.Println(res.Message)
			continue
		}

		out, err := eng.Translate(line)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Println(out)
	}

	saveAndClose(conn, eng, logger)
}

func saveAndClose(conn *sql.DB, eng *engine.Engine, logger *zap.Logger) {
	if err := store.Save(conn, eng.Glossary()); err != nil {
		logger.Error("save glossary", zap.Error(err))
		return
	}
	logger.Info("glossary saved", zap.Int("entries", eng.Glossary().Len()))
}
