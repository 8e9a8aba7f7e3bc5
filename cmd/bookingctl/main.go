package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/m04kA/GardenBookingService/internal/bookingform"
	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/engine/quote"
	"github.com/m04kA/GardenBookingService/internal/integrations/bookingapi"
	"github.com/m04kA/GardenBookingService/pkg/logger"
	"github.com/m04kA/GardenBookingService/pkg/money"
)

const usage = `bookingctl talks to the garden booking API.

Usage:
  bookingctl [global flags] <command> [flags]

Commands:
  services        list bookable services
  availability    show the slot verdicts of a day
  quote           price a selection
  book            book a slot through the booking form
  status          show a booking
  cancel          cancel a booking

Global flags:
`

func main() {
	global := flag.NewFlagSet("bookingctl", flag.ExitOnError)
	apiURL := global.String("api", envOr("BOOKING_API_URL", "http://localhost:8080"), "booking API base URL")
	token := global.String("token", os.Getenv("BOOKING_MANAGER_TOKEN"), "manager token")
	timeout := global.Duration("timeout", 10*time.Second, "request timeout")
	level := global.String("log-level", "warn", "log level")
	global.Usage = func() {
		fmt.Fprint(global.Output(), usage)
		global.PrintDefaults()
	}
	_ = global.Parse(os.Args[1:])

	if global.NArg() == 0 {
		global.Usage()
		os.Exit(2)
	}

	log, err := logger.NewWithAppName("bookingctl", "", *level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	client := bookingapi.NewClient(bookingapi.Config{
		BaseURL:      *apiURL,
		Timeout:      *timeout,
		ManagerToken: *token,
	}, log)

	ctx, cancel := context.WithTimeout(context.Background(), 4*(*timeout))
	defer cancel()

	cmd, args := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "services":
		err = runServices(ctx, client)
	case "availability":
		err = runAvailability(ctx, client, args)
	case "quote":
		err = runQuote(ctx, client, args)
	case "book":
		err = runBook(ctx, client, log, args)
	case "status":
		err = runStatus(ctx, client, args)
	case "cancel":
		err = runCancel(ctx, client, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		global.Usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func runServices(ctx context.Context, client *bookingapi.Client) error {
	services, err := client.ListServices(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tCAPACITY\tMINIMUM")
	for _, s := range services {
		capacity := fmt.Sprintf("%d slot(s) + %d buffer", s.Capacity.SlotsRequired, s.Capacity.BufferSlots)
		if s.Capacity.FullDay {
			capacity = "full day"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Key, s.Name, capacity, money.FormatPence(s.Quote.MinimumCallOutPence))
	}
	return w.Flush()
}

func runAvailability(ctx context.Context, client *bookingapi.Client, args []string) error {
	fs := flag.NewFlagSet("availability", flag.ExitOnError)
	date := fs.String("date", "", "day, YYYY-MM-DD")
	service := fs.String("service", "", "service key; empty for day occupancy only")
	_ = fs.Parse(args)

	day, err := parseDate(*date)
	if err != nil {
		return err
	}

	resp, err := client.GetAvailability(ctx, day, *service)
	if err != nil {
		return err
	}

	if resp.NonWorkingDay {
		fmt.Printf("%s: not a working day\n", resp.Date)
		return nil
	}

	fmt.Printf("%s: %d booking(s), day %s", resp.Date, resp.TotalBookings, availableWord(resp.Day.Available))
	if resp.Day.Reason != "" {
		fmt.Printf(" (%s)", resp.Day.Message)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SLOT\tOCCUPANCY\tVERDICT")
	for i := 0; i < domain.SlotsPerDay; i++ {
		label := domain.SlotLabel(i)
		occupancy := "free"
		if s, ok := resp.Slots[label]; ok && s.Booked {
			occupancy = "booked"
			if s.IsBuffer {
				occupancy = "buffer"
			}
			if s.Service != "" {
				occupancy += " " + s.Service
			}
		}
		verdict := "-"
		if i < len(resp.SlotVerdicts) {
			v := resp.SlotVerdicts[i]
			verdict = availableWord(v.Available)
			if !v.Available && v.Message != "" {
				verdict += ": " + v.Message
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", label, occupancy, verdict)
	}
	return w.Flush()
}

func runQuote(ctx context.Context, client *bookingapi.Client, args []string) error {
	fs := flag.NewFlagSet("quote", flag.ExitOnError)
	service := fs.String("service", "", "service key")
	postcode := fs.String("postcode", "", "customer postcode")
	startTime := fs.String("time", "", "start time, HH:MM")
	options := choiceFlag{}
	extras := extraFlag{}
	var miles optionalFloat
	fs.Var(options, "opt", "option choice id=index (repeatable)")
	fs.Var(extras, "extra", "extra id or id=false (repeatable)")
	fs.Var(&miles, "miles", "distance in miles, overrides -postcode")
	_ = fs.Parse(args)

	if *service == "" {
		return errors.New("-service is required")
	}

	req := &bookingapi.QuoteRequest{
		Service:       *service,
		Options:       options,
		Extras:        extras,
		DistanceMiles: miles.v,
		Postcode:      *postcode,
	}
	if *startTime != "" {
		req.Time = startTime
	}

	res, err := client.CalculateQuote(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", res.ServiceName)
	printQuoteLines(res.Quote)
	return nil
}

func runBook(ctx context.Context, client *bookingapi.Client, log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	service := fs.String("service", "", "service key")
	date := fs.String("date", "", "day, YYYY-MM-DD")
	startTime := fs.String("time", "", "start time, HH:MM")
	name := fs.String("name", "", "customer name")
	email := fs.String("email", "", "customer email")
	phone := fs.String("phone", "", "customer phone")
	postcode := fs.String("postcode", "", "job postcode")
	address := fs.String("address", "", "job address")
	notes := fs.String("notes", "", "notes for the operator")
	options := choiceFlag{}
	extras := extraFlag{}
	var miles optionalFloat
	fs.Var(options, "opt", "option choice id=index (repeatable)")
	fs.Var(extras, "extra", "extra id or id=false (repeatable)")
	fs.Var(&miles, "miles", "distance in miles for the local estimate")
	_ = fs.Parse(args)

	day, err := parseDate(*date)
	if err != nil {
		return err
	}
	slot, err := domain.ParseSlot(*startTime)
	if err != nil {
		return err
	}

	svc, err := findService(ctx, client, *service)
	if err != nil {
		return err
	}

	form := bookingform.NewSession(client, svc, log)
	for id, idx := range options {
		if err := form.SelectOption(id, idx); err != nil {
			return err
		}
	}
	for id, on := range extras {
		if err := form.ToggleExtra(id, on); err != nil {
			return err
		}
	}
	if err := form.SetDistance(miles.v); err != nil {
		return err
	}
	if err := form.SelectDate(ctx, day); err != nil {
		return err
	}
	if err := form.SelectSlot(&slot); err != nil {
		return err
	}

	view := form.View()
	if view.Advisory {
		fmt.Println("Day state unavailable, the server will check the slot")
	}
	if view.Quote != nil {
		fmt.Println("Estimate:")
		printLocalQuote(view.Quote)
	}

	customer := bookingform.Customer{
		Name:     *name,
		Email:    *email,
		Phone:    *phone,
		Postcode: *postcode,
		Address:  *address,
	}
	if *notes != "" {
		customer.Notes = notes
	}

	created, err := form.Submit(ctx, customer)
	if err != nil {
		if errors.Is(err, bookingform.ErrSlotRejected) || errors.Is(err, bookingform.ErrSlotNotAvailable) {
			printAlternatives(form.View())
		}
		return err
	}

	b := created.Booking
	fmt.Printf("Booked %s: %s on %s at %s, %s\n", b.Reference, b.ServiceName, b.BookingDate, b.SlotLabel, b.PriceDisplay)
	if b.PriceNote != nil {
		fmt.Println(*b.PriceNote)
	}
	return nil
}

func runStatus(ctx context.Context, client *bookingapi.Client, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	ref := fs.String("ref", "", "booking reference")
	email := fs.String("email", "", "customer email; not needed with a manager token")
	_ = fs.Parse(args)

	b, err := client.GetBooking(ctx, *ref, *email)
	if err != nil {
		return err
	}
	printBooking(b)
	return nil
}

func runCancel(ctx context.Context, client *bookingapi.Client, args []string) error {
	fs := flag.NewFlagSet("cancel", flag.ExitOnError)
	ref := fs.String("ref", "", "booking reference")
	email := fs.String("email", "", "customer email; not needed with a manager token")
	reason := fs.String("reason", "", "cancellation reason")
	_ = fs.Parse(args)

	var r *string
	if *reason != "" {
		r = reason
	}

	b, err := client.CancelBooking(ctx, *ref, *email, r)
	if err != nil {
		return err
	}
	printBooking(b)
	return nil
}

func findService(ctx context.Context, client *bookingapi.Client, key string) (domain.Service, error) {
	services, err := client.ListServices(ctx)
	if err != nil {
		return domain.Service{}, err
	}
	keys := make([]string, 0, len(services))
	for i := range services {
		if services[i].Key == key {
			return services[i].ToDomain(), nil
		}
		keys = append(keys, services[i].Key)
	}
	return domain.Service{}, fmt.Errorf("unknown service %q, one of: %s", key, strings.Join(keys, ", "))
}

func printQuoteLines(q *bookingapi.Quote) {
	if q == nil {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, l := range q.Lines {
		fmt.Fprintf(w, "  %s\t%s\n", l.Label, l.Display)
	}
	if q.FloorApplied {
		fmt.Fprintf(w, "  Minimum call-out\t%s\n", money.FormatPence(q.MinimumCallOutPence))
	}
	fmt.Fprintf(w, "  Total\t%s\n", q.Total)
	_ = w.Flush()
}

func printLocalQuote(q *quote.Quote) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, l := range q.Lines {
		fmt.Fprintf(w, "  %s\t%s\n", l.Label, l.Display)
	}
	if q.FloorApplied {
		fmt.Fprintf(w, "  Minimum call-out\t%s\n", money.FormatPence(q.MinimumCallOutPence))
	}
	fmt.Fprintf(w, "  Total\t%s\n", money.FormatPence(q.TotalPence))
	_ = w.Flush()
}

func printAlternatives(v bookingform.View) {
	if v.Rejection != "" {
		fmt.Printf("Slot rejected: %s\n", v.Rejection.Message())
	}
	if len(v.Alternatives) == 0 {
		fmt.Println("No other start times left on this day")
		return
	}
	labels := make([]string, len(v.Alternatives))
	for i, slot := range v.Alternatives {
		labels[i] = domain.SlotLabel(slot)
	}
	fmt.Printf("Still available: %s\n", strings.Join(labels, ", "))
}

func printBooking(b *bookingapi.Booking) {
	fmt.Printf("%s  %s\n", b.Reference, b.Status)
	fmt.Printf("  %s on %s at %s\n", b.ServiceName, b.BookingDate, b.SlotLabel)
	fmt.Printf("  %s <%s>\n", b.CustomerName, b.CustomerEmail)
	fmt.Printf("  %s\n", b.PriceDisplay)
	if b.CancellationReason != nil {
		fmt.Printf("  cancelled: %s\n", *b.CancellationReason)
	}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("-date is required")
	}
	d, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

func availableWord(ok bool) string {
	if ok {
		return "available"
	}
	return "unavailable"
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
