// Command rankdex-search is a thin interactive demonstration of the
// indexing core: it opens an index directory and repeatedly reads a
// keyword from stdin, printing ranked (page_id, score) results.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kepra-labs/rankdex/history"
	"github.com/kepra-labs/rankdex/indexer"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the index config file")
	indexDir := flag.String("index", "", "path to the index directory (overrides config.json)")
	flag.Parse()

	cfg, err := indexer.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if *indexDir != "" {
		cfg.IndexDir = *indexDir
	}

	hist, err := history.Open(filepath.Join(cfg.IndexDir, "search_history.db"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "open history store:", err)
		os.Exit(1)
	}
	defer hist.Close()
	cfg.History = hist

	idx, err := indexer.Open(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open index:", err)
		os.Exit(1)
	}
	defer idx.Close()

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("rankdex-search ready. Enter a keyword, Ctrl-D to quit.")
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		keyword := strings.TrimSpace(line)
		if keyword == "" {
			continue
		}

		results, err := idx.SearchByKeywords(keyword)
		if err != nil {
			fmt.Fprintln(os.Stderr, "search:", err)
			continue
		}
		if len(results) == 0 {
			fmt.Println("no matches")
			continue
		}
		for _, r := range results {
			fmt.Printf("%d\t%.6f\n", r.PageID, r.Score)
		}
	}
}
