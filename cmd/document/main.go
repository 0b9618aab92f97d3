// Command document manages CMS documents directly in the configured store,
// bypassing the web UI and its sign-in.
//
//	document [-dry-run] list
//	document [-dry-run] show NAME
//	document [-dry-run] render NAME
//	document [-dry-run] create NAME
//	document [-dry-run] write NAME < content
//	document [-dry-run] delete NAME
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TamerJohn/literate-spoon/internal/config"
	"github.com/TamerJohn/literate-spoon/internal/database"
	"github.com/TamerJohn/literate-spoon/internal/document/repository"
	"github.com/TamerJohn/literate-spoon/internal/document/service"
	"github.com/TamerJohn/literate-spoon/internal/render"
	"github.com/TamerJohn/literate-spoon/pkg/logger"
)

var errUsage = errors.New("usage: document [-dry-run] list | show NAME | render NAME | create NAME | write NAME | delete NAME")

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	dryRun := flag.Bool("dry-run", false, "apply changes to an in-memory copy of the store")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var client *mongo.Client
	if cfg.Data.DocumentStore == config.StoreMongo {
		client, err = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err != nil {
			logger.Fatalf("mongodb: %v", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
	}

	repo, err := repository.Open(ctx, cfg, client)
	if err != nil {
		logger.Fatalf("document store: %v", err)
	}
	if *dryRun {
		if repo, err = snapshot(ctx, repo); err != nil {
			logger.Fatalf("dry run: %v", err)
		}
		logger.Infof("dry run: changes will not be saved")
	}

	if err := run(ctx, service.New(repo), render.New(), flag.Args(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// snapshot copies every document of repo into a MemoryRepo.
func snapshot(ctx context.Context, repo repository.Repository) (*repository.MemoryRepo, error) {
	mem := repository.NewMemoryRepo()
	names, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		b, err := repo.Read(ctx, name)
		if err != nil {
			return nil, err
		}
		if err := mem.Write(ctx, name, b); err != nil {
			return nil, err
		}
	}
	return mem, nil
}

func run(ctx context.Context, docs *service.Service, renderer *render.Renderer, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]
	if cmd == "list" {
		names, err := docs.List(ctx)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(out, n)
		}
		return nil
	}
	if len(args) != 1 {
		return errUsage
	}
	name := args[0]

	switch cmd {
	case "show":
		b, err := docs.Read(ctx, name)
		if err != nil {
			return err
		}
		_, err = out.Write(b)
		return err
	case "render":
		b, err := docs.Read(ctx, name)
		if err != nil {
			return err
		}
		_, body, err := renderer.ForDisplay(name, b)
		if err != nil {
			return err
		}
		_, err = out.Write(body)
		return err
	case "create":
		if err := docs.Create(ctx, name); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s has been created!\n", name)
		return nil
	case "write":
		b, err := io.ReadAll(in)
		if err != nil {
			return err
		}
		if err := docs.Update(ctx, name, b); err != nil {
			return err
		}
		fmt.Fprintf(out, "The %s has been updated!\n", name)
		return nil
	case "delete":
		if err := docs.Delete(ctx, name); err != nil {
			return err
		}
		fmt.Fprintf(out, "The %s document has been deleted!\n", name)
		return nil
	}
	return errUsage
}
