package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/imLOstAU/WeatherWatch/internal/config"
	"github.com/imLOstAU/WeatherWatch/internal/dashboard"
	"github.com/imLOstAU/WeatherWatch/internal/search"
	"github.com/imLOstAU/WeatherWatch/internal/weather"
)

const usage = `Usage: forecast [-unit C|F] [-lat f -lon f] [-watch] <city>
Examples: forecast Berlin
          forecast -unit F "New York"
          forecast -lat 59.91 -lon 10.75
          forecast -watch    (type a query per line)`

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fs := flag.NewFlagSet("forecast", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.Usage = func() { fmt.Fprintln(stdout, usage) }
	unitFlag := fs.String("unit", string(cfg.DefaultUnit), "temperature unit, C or F")
	latFlag := fs.String("lat", "", "latitude")
	lonFlag := fs.String("lon", "", "longitude")
	watchFlag := fs.Bool("watch", false, "read search queries from stdin, one per line")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	unit, err := weather.ParseUnit(*unitFlag)
	if err != nil {
		return err
	}

	svc := weather.NewService(weather.NewClient(cfg.ClientOptions()...))

	if *watchFlag {
		return watch(ctx, svc, cfg.SearchDebounce, cfg.HTTPTimeout, unit, stdin, stdout)
	}

	var loc weather.Location
	switch {
	case *latFlag != "" || *lonFlag != "":
		lat, lon, err := weather.ParseCoordinates(*latFlag, *lonFlag)
		if err != nil {
			return err
		}
		if loc, err = svc.Reverse(ctx, lat, lon); err != nil {
			return errors.New(weather.UserMessage(weather.OpReverse, err))
		}
	case fs.NArg() > 0:
		query := strings.Join(fs.Args(), " ")
		locations, err := svc.Search(ctx, query)
		if err != nil {
			return errors.New(weather.UserMessage(weather.OpSearch, err))
		}
		if len(locations) == 0 {
			return errors.New(weather.UserMessage(weather.OpSearch, weather.ErrNoLocations))
		}
		loc = locations[0]
	default:
		fs.Usage()
		return errors.New("no location given")
	}

	return showForecast(ctx, svc, loc, unit, stdout)
}

func showForecast(ctx context.Context, svc *weather.Service, loc weather.Location, unit weather.Unit, out io.Writer) error {
	wd, err := svc.Forecast(ctx, loc)
	if err != nil {
		return errors.New(weather.UserMessage(weather.OpForecast, err))
	}
	printView(out, dashboard.Build(loc, wd, unit, time.Now()))
	return nil
}

// watch treats every stdin line as the search box's new contents. Only the
// debounced, newest result is printed. When input ends, the forecast for the
// first match of the final query is shown.
func watch(ctx context.Context, svc *weather.Service, delay, timeout time.Duration, unit weather.Unit, in io.Reader, out io.Writer) error {
	s := search.NewSearcher(ctx, svc, delay)
	defer s.Close()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	var (
		last     string
		pending  bool
		final    *search.Result
		deadline <-chan time.Time
	)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				lines = nil
				if !pending {
					return finishWatch(ctx, svc, final, unit, out)
				}
				deadline = time.After(delay + timeout)
				continue
			}
			last, pending = line, true
			s.Update(line)
		case res, ok := <-s.Results():
			if !ok {
				return nil
			}
			printResult(out, res)
			if res.Query == last {
				pending = false
				final = &res
				if lines == nil {
					return finishWatch(ctx, svc, final, unit, out)
				}
			}
		case <-deadline:
			return errors.New("timed out waiting for search results")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func finishWatch(ctx context.Context, svc *weather.Service, final *search.Result, unit weather.Unit, out io.Writer) error {
	if final == nil || final.Err != nil || len(final.Locations) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	return showForecast(ctx, svc, final.Locations[0], unit, out)
}

func printResult(out io.Writer, res search.Result) {
	switch {
	case res.Err != nil:
		fmt.Fprintf(out, "[%d] %q: %s\n", res.Seq, res.Query, weather.UserMessage(weather.OpSearch, res.Err))
	case len(res.Locations) == 0:
		fmt.Fprintf(out, "[%d] (empty query)\n", res.Seq)
	default:
		fmt.Fprintf(out, "[%d] %q:\n", res.Seq, res.Query)
		for _, loc := range res.Locations {
			fmt.Fprintf(out, "    %s, %s (%.4f, %.4f)\n", titled(loc.Name), loc.Country, loc.Latitude, loc.Longitude)
		}
	}
}

func printView(out io.Writer, v dashboard.View) {
	header := fmt.Sprintf("Weather for %s, %s:", titled(v.Location.Name), v.Location.Country)
	fmt.Fprintf(out, "%s\n%s\n", header, strings.Repeat("-", len([]rune(header))))
	fmt.Fprintf(out, "Conditions:  %s\n", titled(v.Current.Description))
	fmt.Fprintf(out, "Temperature: %s\n", dashboard.Degrees(v.Current.Temperature, v.Unit))
	fmt.Fprintf(out, "Feels Like:  %s\n", dashboard.Degrees(v.Current.FeelsLike, v.Unit))
	fmt.Fprintf(out, "Humidity:    %s%%\n", v.Current.Humidity)
	fmt.Fprintf(out, "Wind Speed:  %d km/h\n", v.Current.WindSpeed)
	fmt.Fprintf(out, "Sunrise:     %s\n", v.Sunrise)
	fmt.Fprintf(out, "Sunset:      %s\n", v.Sunset)
	fmt.Fprintf(out, "UV Index:    %d %s. %s\n", v.UV.Index, v.UV.Level, v.UV.Description)

	fmt.Fprintln(out, "\nHourly:")
	for _, h := range v.Hourly {
		marker := " "
		if h.Current {
			marker = "*"
		}
		fmt.Fprintf(out, " %s %-6s %-16s %s\n", marker, h.Label, h.Icon, dashboard.Degrees(h.Temperature, v.Unit))
	}

	fmt.Fprintln(out, "\n8-Day Forecast:")
	for _, d := range v.Daily {
		fmt.Fprintf(out, "  %-10s %-25s High: %s. Low: %s.\n",
			d.Long, titled(d.Description), dashboard.Degrees(d.Max, v.Unit), dashboard.Degrees(d.Min, v.Unit))
	}
}

func titled(s string) string {
	return cases.Title(language.English).String(s)
}
