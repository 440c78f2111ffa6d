package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"recipe-matcher/internal/client"
	"recipe-matcher/internal/pkg/common"
)

const usage = `matchctl <command> [flags]

commands:
  health                         服務狀態
  parse      -text <原文> | -file <檔案>
  normalize  <名稱>...
  complete   <前綴>
  catalog                        正規化食材目錄
  merge      -from <名稱> -into <名稱>
  list                           列出食譜
  get        <id>
  put        -id <id> [-title <標題>] (-text <原文> | -file <檔案>)
  delete     <id>
  recommend  [-algorithm jaccard|cosine] [-rate 0.3] [-limit 20] [-with-seasonings] <食材>...
  settings   [-rate <值>] [-algorithm <名稱>] [-limit <數量>]
  algorithms                     演算法說明

環境變數 MATCHCTL_SERVER、MATCHCTL_TOKEN 可取代 -server、-token。
`

func main() {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("MATCHCTL")
	v.AutomaticEnv()
	v.SetDefault("server", "http://localhost:8080")
	v.SetDefault("timeout", 10*time.Second)

	global := flag.NewFlagSet("matchctl", flag.ExitOnError)
	server := global.String("server", v.GetString("server"), "服務位址")
	token := global.String("token", v.GetString("token"), "管理權杖")
	timeout := global.Duration("timeout", v.GetDuration("timeout"), "請求逾時")
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	_ = global.Parse(os.Args[1:])

	args := global.Args()
	if len(args) == 0 {
		global.Usage()
		os.Exit(2)
	}

	c := client.New(*server, client.WithAdminToken(*token), client.WithTimeout(*timeout), client.WithRetry(2))
	ctx, cancel := context.WithTimeout(context.Background(), *timeout+5*time.Second)
	defer cancel()

	out, err := run(ctx, c, args[0], args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "matchctl %s: %v\n", args[0], err)
		os.Exit(1)
	}
	if out != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		_ = enc.Encode(out)
	}
}

func run(ctx context.Context, c *client.Client, cmd string, args []string) (interface{}, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)

	switch cmd {
	case "health":
		return c.Health(ctx)

	case "parse":
		text := fs.String("text", "", "食材原文")
		file := fs.String("file", "", "從檔案讀取原文，- 為標準輸入")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		body, err := readText(*text, *file)
		if err != nil {
			return nil, err
		}
		return c.Parse(ctx, body)

	case "normalize":
		if len(args) == 0 {
			return nil, fmt.Errorf("at least one name is required")
		}
		return c.Normalize(ctx, args)

	case "complete":
		if len(args) != 1 {
			return nil, fmt.Errorf("exactly one prefix is required")
		}
		return c.Autocomplete(ctx, args[0])

	case "catalog":
		return c.Catalog(ctx)

	case "merge":
		from := fs.String("from", "", "被合併的名稱")
		into := fs.String("into", "", "合併目標")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return c.Merge(ctx, *from, *into)

	case "list":
		return c.ListRecipes(ctx)

	case "get":
		if len(args) != 1 {
			return nil, fmt.Errorf("recipe id is required")
		}
		return c.GetRecipe(ctx, args[0])

	case "put":
		id := fs.String("id", "", "食譜 ID")
		title := fs.String("title", "", "標題")
		text := fs.String("text", "", "食材原文")
		file := fs.String("file", "", "從檔案讀取原文，- 為標準輸入")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if *id == "" {
			return nil, fmt.Errorf("-id is required")
		}
		body, err := readText(*text, *file)
		if err != nil {
			return nil, err
		}
		return c.PutRecipe(ctx, *id, *title, body)

	case "delete":
		if len(args) != 1 {
			return nil, fmt.Errorf("recipe id is required")
		}
		return nil, c.DeleteRecipe(ctx, args[0])

	case "recommend":
		algorithm := fs.String("algorithm", "", "jaccard 或 cosine")
		rate := fs.Float64("rate", -1, "最低配對分數")
		limit := fs.Int("limit", 0, "結果數量上限")
		withSeasonings := fs.Bool("with-seasonings", false, "計分時包含基本調味料")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		req := common.RecommendRequest{Ingredients: fs.Args(), Algorithm: *algorithm}
		if *rate >= 0 {
			req.MinMatchRate = rate
		}
		if *limit > 0 {
			req.Limit = limit
		}
		if *withSeasonings {
			exclude := false
			req.ExcludeSeasonings = &exclude
		}
		return c.Recommend(ctx, req)

	case "settings":
		rate := fs.Float64("rate", -1, "最低配對分數")
		algorithm := fs.String("algorithm", "", "預設演算法")
		limit := fs.Int("limit", 0, "預設結果數量")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if *rate < 0 && *algorithm == "" && *limit == 0 {
			return c.Settings(ctx)
		}
		req := common.SettingsRequest{DefaultAlgorithm: *algorithm}
		if *rate >= 0 {
			req.MinMatchRate = rate
		}
		if *limit > 0 {
			req.DefaultLimit = limit
		}
		return c.UpdateSettings(ctx, req)

	case "algorithms":
		return c.Algorithms(ctx)

	default:
		return nil, fmt.Errorf("unknown command %q", cmd)
	}
}

func readText(text, file string) (string, error) {
	switch {
	case strings.TrimSpace(text) != "":
		return text, nil
	case file == "-":
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	case file != "":
		b, err := os.ReadFile(file)
		return string(b), err
	default:
		return "", fmt.Errorf("-text or -file is required")
	}
}
