// Command groups manages post groups. Groups are created by administrators,
// not through the public API.
//
//	groups create -title "Cats" -slug cats -description "All about cats"
//	groups list
//	groups delete -slug cats
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/model"
	"yatube/internal/repository"
	"yatube/internal/service"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: groups <create|list|delete> [flags]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	groups := service.NewGroupService(repository.NewGroupRepository(db))

	switch os.Args[1] {
	case "create":
		err = runCreate(ctx, groups, os.Args[2:])
	case "list":
		err = runList(ctx, groups)
	case "delete":
		err = runDelete(ctx, groups, os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		log.Fatalf("groups %s: %v", os.Args[1], err)
	}
}

func runCreate(ctx context.Context, groups *service.GroupService, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	title := fs.String("title", "", "group title (max 200 characters)")
	slug := fs.String("slug", "", "unique URL slug")
	description := fs.String("description", "", "group description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	group, err := groups.Create(ctx, *title, *slug, *description)
	if err != nil {
		return err
	}
	fmt.Printf("created group %d (%s)\n", group.ID, group.Slug)
	return nil
}

func runList(ctx context.Context, groups *service.GroupService) error {
	list, err := groups.List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLUG\tTITLE")
	for _, g := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
	}
	return w.Flush()
}

func runDelete(ctx context.Context, groups *service.GroupService, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	slug := fs.String("slug", "", "slug of the group to delete")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := groups.Delete(ctx, *slug); err != nil {
		if errors.Is(err, model.ErrGroupNotFound) {
			return fmt.Errorf("no group with slug %q", *slug)
		}
		return err
	}
	fmt.Printf("deleted group %s; its posts no longer have a group\n", *slug)
	return nil
}
