package report

import (
	"context"
	"fmt"
	"io"

	"github.com/Nxdus/casualty-api/services"
	"github.com/Nxdus/casualty-api/stats"
)

type SummaryFetcher interface {
	Fetch(ctx context.Context, resource services.Resource) (*services.Payload, error)
}

// PrintTotalKilled fetches the summary and prints the combined death toll.
// Any failure is printed instead of the total; the error is returned for
// logging only.
func PrintTotalKilled(ctx context.Context, fetcher SummaryFetcher, w io.Writer) error {
	total, err := TotalKilled(ctx, fetcher)
	if err != nil {
		fmt.Fprintf(w, "An error occurred: %v\n", err)
		return err
	}

	fmt.Fprintf(w, "Total number of people killed: %d\n", total)
	return nil
}

func TotalKilled(ctx context.Context, fetcher SummaryFetcher) (int64, error) {
	payload, err := fetcher.Fetch(ctx, services.ResourceSummary)
	if err != nil {
		return 0, err
	}
	return stats.TotalKilled(payload.Body)
}
