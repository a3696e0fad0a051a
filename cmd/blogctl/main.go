// blogctl is a small operator tool for inspecting and seeding the blog
// database from the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rahuman122003/blogify-module/internal/config"
	"github.com/Rahuman122003/blogify-module/internal/db"
	"github.com/Rahuman122003/blogify-module/internal/editor"
	"github.com/Rahuman122003/blogify-module/internal/logger"
	"github.com/Rahuman122003/blogify-module/internal/model"
	"github.com/Rahuman122003/blogify-module/internal/repository"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	slugStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	draftStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l := logger.New("warn")
	config.SetLogger(l)
	db.SetLogger(l)
	repository.SetLogger(l)

	database := db.NewSQLite(cfg.Database.Path)
	if err := database.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	posts := repository.NewDBPostRepository(database)

	switch flag.Arg(0) {
	case "list":
		listPosts(posts)
	case "seed":
		seedPost(posts)
	default:
		fmt.Fprintln(os.Stderr, "usage: blogctl [-config path] <list|seed>")
		os.Exit(2)
	}
}

func listPosts(posts repository.PostRepository) {
	all, err := posts.ListAll(context.Background())
	if err != nil {
		log.Fatalf("Failed to list posts: %v", err)
	}

	if len(all) == 0 {
		fmt.Println(draftStyle.Render("no posts"))
		return
	}

	for _, p := range all {
		line := titleStyle.Render(p.Title) + " " + slugStyle.Render("/"+p.Slug)
		if !p.Published {
			line += " " + draftStyle.Render("(draft)")
		}
		fmt.Printf("%s\n    %d blocks, created %s\n", line, len(p.Blocks), p.CreatedAt.Format("2006-01-02"))
	}
}

// seedPost composes an example post through an editor session, the same
// path the admin surface takes.
func seedPost(posts repository.PostRepository) {
	session := editor.NewSession()
	session.SetTitle("Hello, Blogify!")
	session.SetDescription("A seeded example post.")
	session.SetCoverImage("https://picsum.photos/1200/630")
	session.SetAuthor("blogctl")
	session.SetPublished(true)

	heading := session.AddBlock(model.KindHeading2)
	session.UpdateBlock(heading, editor.BlockPatch{Text: strPtr("Welcome")})

	para := session.AddBlock(model.KindParagraph)
	session.UpdateBlock(para, editor.BlockPatch{
		Text: strPtr("This post was created by `blogctl seed`. Edit or delete it from the admin surface."),
	})

	created, err := session.Submit(context.Background(), posts)
	if err != nil {
		log.Fatalf("Failed to seed post: %v", err)
	}

	fmt.Println(titleStyle.Render("Seeded:"), slugStyle.Render("/"+created.Slug))
}

func strPtr(s string) *string { return &s }
