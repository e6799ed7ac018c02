package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"apartment-listing-service/pkg/listingclient"
)

var (
	serverAddr string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "listing-browser",
		Short: "Terminal client for the apartment listing API",
	}

	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", "http://localhost:8080", "listing API base URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(
		browseCmd(),
		getCmd(),
		createCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient() *listingclient.Client {
	var logger listingclient.Logger
	if verbose {
		logger = stderrLogger{}
	}
	return listingclient.NewClient(serverAddr, logger)
}

// stderrLogger - простейший логгер для режима --verbose.
type stderrLogger struct{}

func (stderrLogger) Debug(msg string, keysAndValues ...interface{}) {
	log.Println(append([]interface{}{"DEBUG:", msg}, keysAndValues...)...)
}
func (stderrLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Println(append([]interface{}{"INFO:", msg}, keysAndValues...)...)
}
func (stderrLogger) Warn(msg string, keysAndValues ...interface{}) {
	log.Println(append([]interface{}{"WARN:", msg}, keysAndValues...)...)
}
func (stderrLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Println(append([]interface{}{"ERROR:", msg, "error:", err}, keysAndValues...)...)
}

func browseCmd() *cobra.Command {
	var (
		page   int
		limit  int
		search string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse listings interactively with paging and search",
		RunE: func(cmd *cobra.Command, args []string) error {
			initial := url.Values{}
			initial.Set("page", strconv.Itoa(page))
			initial.Set("limit", strconv.Itoa(limit))
			if search != "" {
				initial.Set("search", search)
			}

			address := listingclient.NewMemoryAddressBar(initial)
			coordinator, err := listingclient.NewCoordinator(newClient(), address, nil)
			if err != nil {
				return err
			}

			done := make(chan struct{}, 1)
			coordinator.OnChange(func(state listingclient.State) {
				renderState(state, address)
				if !state.Loading {
					select {
					case done <- struct{}{}:
					default:
					}
				}
			})

			ctx := cmd.Context()
			coordinator.Initialize(ctx)
			<-done

			return browseLoop(ctx, coordinator, done)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "initial page")
	cmd.Flags().IntVar(&limit, "limit", listingclient.DefaultLimit, "page size")
	cmd.Flags().StringVar(&search, "search", "", "initial search text")

	return cmd
}

// browseLoop читает команды пользователя до quit или конца ввода.
func browseLoop(ctx context.Context, coordinator *listingclient.Coordinator, done <-chan struct{}) error {
	fmt.Println("Commands: next | prev | page N | search TEXT | clear | quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		// Сбрасываем сигнал от предыдущего запроса, если он остался.
		select {
		case <-done:
		default:
		}

		issued := true
		switch fields[0] {
		case "quit", "q", "exit":
			return nil
		case "next":
			coordinator.GoToPage(ctx, coordinator.State().CurrentPage+1)
		case "prev":
			coordinator.GoToPage(ctx, coordinator.State().CurrentPage-1)
		case "page":
			if len(fields) < 2 {
				fmt.Println("usage: page N")
				continue
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("usage: page N")
				continue
			}
			coordinator.GoToPage(ctx, n)
		case "search":
			coordinator.SubmitSearch(ctx, strings.TrimSpace(strings.TrimPrefix(line, "search")))
		case "clear":
			coordinator.ClearSearch(ctx)
		default:
			fmt.Printf("unknown command: %s\n", fields[0])
			issued = false
		}

		// Переходы за границы страниц игнорируются без запроса,
		// поэтому ждать здесь нечего: снапшот придет только если запрос выдан.
		if issued {
			waitIfFetching(coordinator, done)
		}
	}
}

func waitIfFetching(coordinator *listingclient.Coordinator, done <-chan struct{}) {
	if coordinator.State().Loading {
		<-done
	}
}

func renderState(state listingclient.State, address *listingclient.MemoryAddressBar) {
	if state.Loading {
		fmt.Println("loading...")
		return
	}
	if state.ErrMessage != "" {
		fmt.Printf("! %s\n", state.ErrMessage)
		return
	}

	if len(state.Apartments) == 0 {
		fmt.Println("No apartments found.")
	}
	for _, apartment := range state.Apartments {
		fmt.Printf("%s  %-24s  unit %-8s  %-20s  %.2f\n",
			apartment.ID, apartment.Name, apartment.UnitNumber, apartment.Project, apartment.Price)
	}

	if state.Pagination != nil {
		fmt.Printf("page %d/%d, %d total (?%s)\n",
			state.Pagination.CurrentPage, state.Pagination.TotalPages,
			state.Pagination.TotalCount, address.Current().Encode())
	}
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <apartment-id>",
		Short: "Show a single apartment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apartment, err := newClient().GetApartment(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Name:     %s\n", apartment.Name)
			fmt.Printf("Unit:     %s\n", apartment.UnitNumber)
			fmt.Printf("Project:  %s\n", apartment.Project)
			fmt.Printf("Price:    %.2f\n", apartment.Price)
			fmt.Printf("Contact:  %s\n", apartment.ContactNumber)
			fmt.Printf("Created:  %s\n", apartment.CreatedAt.Format("2006-01-02 15:04:05"))
			if apartment.Description != "" {
				fmt.Printf("About:    %s\n", apartment.Description)
			}
			for _, imageURL := range apartment.ImageURLs {
				fmt.Printf("Image:    %s\n", imageURL)
			}
			return nil
		},
	}
}

func createCmd() *cobra.Command {
	var (
		name        string
		unitNumber  string
		project     string
		description string
		price       float64
		contact     string
		imagePaths  []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Upload images and create an apartment listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := newClient()

			imageURLs, err := uploadImages(ctx, client, imagePaths)
			if err != nil {
				return err
			}

			created, err := client.CreateApartment(ctx, listingclient.NewApartment{
				Name:          name,
				UnitNumber:    unitNumber,
				Project:       project,
				Description:   description,
				Price:         price,
				ContactNumber: contact,
				ImageURLs:     imageURLs,
			})
			if err != nil {
				var validationErr *listingclient.ValidationError
				if errors.As(err, &validationErr) {
					fmt.Fprintln(os.Stderr, "Listing was rejected:")
					for field, messages := range validationErr.Fields {
						for _, message := range messages {
							fmt.Fprintf(os.Stderr, "  %s: %s\n", field, message)
						}
					}
				}
				return err
			}

			fmt.Printf("Created apartment %s\n", created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "apartment name")
	cmd.Flags().StringVar(&unitNumber, "unit", "", "unit number")
	cmd.Flags().StringVar(&project, "project", "", "project name")
	cmd.Flags().StringVar(&description, "description", "", "free-form description")
	cmd.Flags().Float64Var(&price, "price", 0, "price, must be positive")
	cmd.Flags().StringVar(&contact, "contact", "", "contact phone number")
	cmd.Flags().StringSliceVar(&imagePaths, "image", nil, "image file to upload (repeatable, 1-8 files)")

	return cmd
}

func uploadImages(ctx context.Context, client *listingclient.Client, paths []string) ([]string, error) {
	var attachments listingclient.AttachmentSet

	files := make([]listingclient.UploadFile, 0, len(paths))
	opened := make([]*os.File, 0, len(paths))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %q: %w", path, err)
		}
		opened = append(opened, f)
		files = append(files, listingclient.UploadFile{Name: filepath.Base(path), Data: f})
	}

	uploaded, err := attachments.UploadBatch(ctx, client, files)
	if err != nil {
		return nil, err
	}
	for _, imageURL := range uploaded {
		fmt.Printf("Uploaded %s\n", imageURL)
	}
	return attachments.URLs(), nil
}
