package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/joho/godotenv"

	"todo-back/domain/models"
	"todo-back/pkg/board"
	"todo-back/pkg/client"
)

const usage = `usage:
  board list  [-status S]
  board move  -id N [-to STATUS] [-over M]
  board watch`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	baseURL := getEnv("BOARD_API_URL", "http://localhost:8080")
	api := client.New(baseURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "list":
		err = runList(ctx, api, os.Args[2:])
	case "move":
		err = runMove(ctx, api, os.Args[2:])
	case "watch":
		err = runWatch(ctx, api, baseURL)
	default:
		fmt.Println(usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("board %s: %v", os.Args[1], err)
	}
}

func runList(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	status := fs.String("status", "", "show only this column (name or index)")
	_ = fs.Parse(args)

	store, err := load(ctx, api)
	if err != nil {
		return err
	}
	if *status != "" {
		s, err := models.ParseTaskStatus(*status)
		if err != nil {
			return err
		}
		store.Dispatch(board.StatusFilterChanged{Status: &s})
	}

	printBoard(store.State())
	return nil
}

func runMove(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("move", flag.ExitOnError)
	id := fs.Uint("id", 0, "task to drag")
	to := fs.String("to", "", "column to drop into")
	over := fs.Uint("over", 0, "task to drop onto (swaps positions)")
	_ = fs.Parse(args)

	if *id == 0 {
		return errors.New("-id is required")
	}

	store, err := load(ctx, api)
	if err != nil {
		return err
	}

	drag := board.NewDrag(store, board.DefaultDebounce)
	if !drag.Start(*id) {
		return fmt.Errorf("task %d not found", *id)
	}
	if *to != "" {
		s, err := models.ParseTaskStatus(*to)
		if err != nil {
			return err
		}
		drag.Over(s)
	}

	move, err := drag.Drop(*over)
	if err != nil {
		return err
	}
	if err := board.Persist(ctx, api, move); err != nil {
		return err
	}

	fmt.Printf("moved task %d (status changed: %t, reordered: %t)\n\n",
		move.Task.ID, move.StatusChanged, len(move.Ordering) > 0)
	printBoard(store.State())
	return nil
}

func runWatch(ctx context.Context, api *client.Client, baseURL string) error {
	store, err := load(ctx, api)
	if err != nil {
		return err
	}
	store.Subscribe(func(s board.State) {
		c := s.Counts()
		fmt.Printf("[%s] todas=%d pendentes=%d emProgresso=%d concluidas=%d\n",
			time.Now().Format(time.TimeOnly), c.All, c.Pending, c.InProgress, c.Completed)
	})

	wsURL := "ws" + strings.TrimPrefix(strings.TrimRight(baseURL, "/"), "http") + "/ws/tarefas"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", wsURL, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	fmt.Printf("watching %s\n", wsURL)
	printBoard(store.State())

	for {
		var msg struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		action, err := board.FromEvent(msg.Type, msg.Data)
		if err != nil {
			log.Printf("skip event: %v", err)
			continue
		}
		if action != nil {
			store.Dispatch(action)
		}
	}
}

func load(ctx context.Context, api *client.Client) (*board.Store, error) {
	tasks, err := api.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	store := board.NewStore()
	store.Dispatch(board.Loaded{Tasks: tasks})
	return store, nil
}

func printBoard(s board.State) {
	c := s.Counts()
	fmt.Println("===========================================")
	fmt.Printf("  Tarefas: %d (pendentes %d, em progresso %d, concluidas %d)\n",
		c.All, c.Pending, c.InProgress, c.Completed)
	fmt.Println("===========================================")

	for _, col := range s.Columns() {
		fmt.Printf("\n%s (%d)\n", col.Status, len(col.Tasks))
		for _, t := range col.Tasks {
			fmt.Printf("  #%-4d %s\n", t.ID, t.Title)
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
