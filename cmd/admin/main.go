// Command admin is a small operational CLI over the inventory API. It goes
// through the same typed client the rest of the tooling uses, so every read
// is cache-aware and every mutation applies the usual tag invalidation.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"stockroom/internal/client"
	"stockroom/internal/config"
	"stockroom/internal/domain"
	"stockroom/internal/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const commandTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.NewWithDefaults()
	defer log.Sync()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	api := client.New(cfg.API.BaseURL, client.WithLogger(log))

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "products":
		err = runProducts(ctx, api, os.Args[2:])
	case "branches":
		err = runBranches(ctx, api, os.Args[2:])
	case "sales":
		err = runSales(ctx, api, os.Args[2:])
	case "dashboard":
		err = printJSON(func() (any, error) { return api.GetDashboardMetrics(ctx) })
	case "users":
		err = printJSON(func() (any, error) { return api.ListUsers(ctx) })
	case "expenses":
		err = printJSON(func() (any, error) { return api.ListExpensesByCategory(ctx) })
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			log.Error("Command failed",
				zap.String("kind", string(apiErr.Kind)),
				zap.Int("status", apiErr.Status),
				zap.String("message", apiErr.Message),
			)
		} else {
			log.Error("Command failed", zap.Error(err))
		}
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: admin <command> [flags]

Commands:
  products list|get|create|update|delete
  branches list|get|create|update|delete
  sales    list|create
  dashboard
  users
  expenses`)
}

func runProducts(ctx context.Context, api *client.Client, args []string) error {
	if len(args) < 1 {
		return errors.New("products: missing subcommand")
	}

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("products list", flag.ExitOnError)
		search := fs.String("search", "", "match against product name or id")
		page := fs.Int("page", domain.DefaultPage, "page number")
		limit := fs.Int("limit", domain.DefaultLimit, "page size")
		branch := fs.String("branch", "", "restrict to one branch id")
		fs.Parse(args[1:])

		filter := domain.ProductFilter{Search: *search, Page: *page, Limit: *limit}
		if *branch != "" {
			id, err := uuid.Parse(*branch)
			if err != nil {
				return fmt.Errorf("invalid branch id: %w", err)
			}
			filter.BranchID = &id
		}
		return printJSON(func() (any, error) { return api.ListProducts(ctx, filter) })

	case "get":
		fs := flag.NewFlagSet("products get", flag.ExitOnError)
		rawID := fs.String("id", "", "product id")
		fs.Parse(args[1:])

		id, err := uuid.Parse(*rawID)
		if err != nil {
			return fmt.Errorf("invalid product id: %w", err)
		}
		return printJSON(func() (any, error) { return api.GetProduct(ctx, id) })

	case "create":
		fs := flag.NewFlagSet("products create", flag.ExitOnError)
		name := fs.String("name", "", "product name")
		price := fs.Float64("price", 0, "unit price")
		description := fs.String("description", "", "product description")
		gender := fs.String("gender", "", "target gender")
		image := fs.String("image", "", "image URL")
		branch := fs.String("branch", "", "owning branch id")
		sizes := fs.String("sizes", "", "size stock as label:qty pairs, e.g. S:10,M:5")
		fs.Parse(args[1:])

		input := domain.NewProduct{
			Name:        *name,
			Price:       *price,
			Description: *description,
			Gender:      *gender,
			ImageURL:    *image,
		}
		if *branch != "" {
			id, err := uuid.Parse(*branch)
			if err != nil {
				return fmt.Errorf("invalid branch id: %w", err)
			}
			input.BranchID = &id
		}
		parsed, err := parseSizes(*sizes)
		if err != nil {
			return err
		}
		input.Sizes = parsed
		return printJSON(func() (any, error) { return api.CreateProduct(ctx, input) })

	case "update":
		fs := flag.NewFlagSet("products update", flag.ExitOnError)
		rawID := fs.String("id", "", "product id")
		name := fs.String("name", "", "new name")
		price := fs.Float64("price", -1, "new unit price")
		sizes := fs.String("sizes", "", "replacement size stock as label:qty pairs")
		fs.Parse(args[1:])

		id, err := uuid.Parse(*rawID)
		if err != nil {
			return fmt.Errorf("invalid product id: %w", err)
		}

		var patch domain.ProductPatch
		if *name != "" {
			patch.Name = name
		}
		if *price >= 0 {
			patch.Price = price
		}
		if *sizes != "" {
			parsed, err := parseSizes(*sizes)
			if err != nil {
				return err
			}
			patch.Sizes = parsed
		}
		return printJSON(func() (any, error) { return api.UpdateProduct(ctx, id, patch) })

	case "delete":
		fs := flag.NewFlagSet("products delete", flag.ExitOnError)
		rawID := fs.String("id", "", "product id")
		fs.Parse(args[1:])

		id, err := uuid.Parse(*rawID)
		if err != nil {
			return fmt.Errorf("invalid product id: %w", err)
		}
		return printJSON(func() (any, error) { return api.DeleteProduct(ctx, id) })
	}

	return fmt.Errorf("products: unknown subcommand %q", args[0])
}

func runBranches(ctx context.Context, api *client.Client, args []string) error {
	if len(args) < 1 {
		return errors.New("branches: missing subcommand")
	}

	switch args[0] {
	case "list":
		return printJSON(func() (any, error) { return api.ListBranches(ctx) })

	case "get":
		fs := flag.NewFlagSet("branches get", flag.ExitOnError)
		rawID := fs.String("id", "", "branch id")
		fs.Parse(args[1:])

		id, err := uuid.Parse(*rawID)
		if err != nil {
			return fmt.Errorf("invalid branch id: %w", err)
		}
		return printJSON(func() (any, error) { return api.GetBranch(ctx, id) })

	case "create":
		fs := flag.NewFlagSet("branches create", flag.ExitOnError)
		name := fs.String("name", "", "branch name")
		location := fs.String("location", "", "branch location")
		fs.Parse(args[1:])

		input := domain.NewBranch{Name: *name, Location: *location}
		return printJSON(func() (any, error) { return api.CreateBranch(ctx, input) })

	case "update":
		fs := flag.NewFlagSet("branches update", flag.ExitOnError)
		rawID := fs.String("id", "", "branch id")
		name := fs.String("name", "", "new name")
		location := fs.String("location", "", "new location")
		fs.Parse(args[1:])

		id, err := uuid.Parse(*rawID)
		if err != nil {
			return fmt.Errorf("invalid branch id: %w", err)
		}

		var patch domain.BranchPatch
		if *name != "" {
			patch.Name = name
		}
		if *location != "" {
			patch.Location = location
		}
		return printJSON(func() (any, error) { return api.UpdateBranch(ctx, id, patch) })

	case "delete":
		fs := flag.NewFlagSet("branches delete", flag.ExitOnError)
		rawID := fs.String("id", "", "branch id")
		fs.Parse(args[1:])

		id, err := uuid.Parse(*rawID)
		if err != nil {
			return fmt.Errorf("invalid branch id: %w", err)
		}
		return printJSON(func() (any, error) { return api.DeleteBranch(ctx, id) })
	}

	return fmt.Errorf("branches: unknown subcommand %q", args[0])
}

func runSales(ctx context.Context, api *client.Client, args []string) error {
	if len(args) < 1 {
		return errors.New("sales: missing subcommand")
	}

	switch args[0] {
	case "list":
		return printJSON(func() (any, error) { return api.ListSales(ctx) })

	case "create":
		fs := flag.NewFlagSet("sales create", flag.ExitOnError)
		payment := fs.String("payment", string(domain.PaymentCash), "payment method")
		items := fs.String("items", "", "sale lines as productId:size:qty triples, comma separated")
		fs.Parse(args[1:])

		lines, err := parseSaleLines(*items)
		if err != nil {
			return err
		}

		req := domain.CreateSaleRequest{
			Items:         lines,
			PaymentMethod: domain.PaymentMethod(*payment),
		}
		return printJSON(func() (any, error) { return api.CreateSale(ctx, req) })
	}

	return fmt.Errorf("sales: unknown subcommand %q", args[0])
}

// parseSizes parses "S:10,M:5" into size rows
func parseSizes(raw string) ([]domain.NewStockSize, error) {
	if raw == "" {
		return nil, nil
	}

	var sizes []domain.NewStockSize
	for _, pair := range strings.Split(raw, ",") {
		label, qtyRaw, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid size pair %q, want label:qty", pair)
		}
		qty, err := strconv.Atoi(qtyRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in size pair %q: %w", pair, err)
		}
		sizes = append(sizes, domain.NewStockSize{Size: label, StockQuantity: qty})
	}
	return sizes, nil
}

// parseSaleLines parses "id:size:qty,id:size:qty" into checkout lines
func parseSaleLines(raw string) ([]domain.SaleLine, error) {
	if raw == "" {
		return nil, errors.New("sales create: -items is required")
	}

	var lines []domain.SaleLine
	for _, triple := range strings.Split(raw, ",") {
		parts := strings.Split(triple, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid sale line %q, want productId:size:qty", triple)
		}
		id, err := uuid.Parse(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid product id in sale line %q: %w", triple, err)
		}
		qty, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in sale line %q: %w", triple, err)
		}
		lines = append(lines, domain.SaleLine{ProductID: id, Size: parts[1], Quantity: qty})
	}
	return lines, nil
}

// printJSON runs a client call and pretty-prints its result to stdout
func printJSON(call func() (any, error)) error {
	result, err := call()
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}
