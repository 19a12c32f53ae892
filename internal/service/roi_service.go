package service

import (
	"sort"
	"time"

	"github.com/dcosta/invest-snapshot-backend/internal/model"
	"github.com/dcosta/invest-snapshot-backend/internal/repository"
)

// minorUnitScale converts stored minor currency units (cents) to major units
// for API responses that report balances as decimals.
const minorUnitScale = 100

// ROIService computes portfolio-level aggregates over the snapshot series
// and the transaction ledger: balances, per-asset returns, distribution,
// the monthly evolution chart and year-over-year performance.
type ROIService struct {
	snapshotRepo    *repository.SnapshotRepository
	transactionRepo *repository.TransactionRepository
	assetRepo       *repository.AssetRepository
}

// NewROIService creates a new ROIService with the provided dependencies.
func NewROIService(
	snapshotRepo *repository.SnapshotRepository,
	transactionRepo *repository.TransactionRepository,
	assetRepo *repository.AssetRepository,
) *ROIService {
	return &ROIService{
		snapshotRepo:    snapshotRepo,
		transactionRepo: transactionRepo,
		assetRepo:       assetRepo,
	}
}

// CombinedInvestedBalance sums buys minus sells across all of the user's
// assets within [from, to], in major currency units.
func (s *ROIService) CombinedInvestedBalance(userID string, from, to time.Time) (float64, error) {
	balance, err := s.transactionRepo.CombinedBalanceBetween(userID, from, to)
	if err != nil {
		return 0, err
	}
	return float64(balance) / minorUnitScale, nil
}

// CombinedInvestedAndWithdrawn separately sums buy-only and sell-only
// amounts across all of the user's assets within [from, to], in major
// currency units.
func (s *ROIService) CombinedInvestedAndWithdrawn(userID string, from, to time.Time) (model.InvestedAndWithdrawn, error) {
	invested, withdrawn, err := s.transactionRepo.InvestedAndWithdrawnBetween(userID, from, to)
	if err != nil {
		return model.InvestedAndWithdrawn{}, err
	}
	return model.InvestedAndWithdrawn{
		InvestedAmount:  float64(invested) / minorUnitScale,
		WithdrawnAmount: float64(withdrawn) / minorUnitScale,
	}, nil
}

// AssetROIs computes the return of each of the user's active assets from its
// most recent snapshot, ordered best to worst by absolute return. Assets
// without any snapshot are skipped; their return is undefined, not zero.
func (s *ROIService) AssetROIs(userID string) ([]model.AssetROI, error) {
	assets, err := s.assetRepo.ListActiveForUser(userID)
	if err != nil {
		return nil, err
	}

	rois := []model.AssetROI{}

	for _, asset := range assets {
		latest, err := s.snapshotRepo.GetLatestAtOrBefore(asset.ID, model.MonthYear{})
		if err != nil {
			return nil, err
		}
		if latest == nil {
			continue
		}

		roi := latest.CurrentValue - latest.InvestedAmount + latest.WithdrawnAmount

		rois = append(rois, model.AssetROI{
			AssetID:         asset.ID,
			AssetName:       asset.Name,
			AssetTicker:     asset.Ticker,
			Units:           latest.Units,
			InvestedAmount:  latest.InvestedAmount,
			WithdrawnAmount: latest.WithdrawnAmount,
			CurrentValue:    latest.CurrentValue,
			ROIAmount:       roi,
			ROIPercentage:   percentageOf(roi, latest.InvestedAmount),
		})
	}

	sort.SliceStable(rois, func(i, j int) bool {
		return rois[i].ROIAmount > rois[j].ROIAmount
	})

	return rois, nil
}

// TopPerforming returns the user's n best performing assets by absolute
// return. A non-positive n returns the full ranking.
func (s *ROIService) TopPerforming(userID string, n int) ([]model.AssetROI, error) {
	rois, err := s.AssetROIs(userID)
	if err != nil {
		return nil, err
	}
	if n > 0 && n < len(rois) {
		rois = rois[:n]
	}
	return rois, nil
}

// PortfolioDistribution returns each active asset's share of the portfolio's
// total marked value, based on the most recent snapshot per asset. When the
// total value is zero every share is zero.
func (s *ROIService) PortfolioDistribution(userID string) ([]model.DistributionSlice, error) {
	assets, err := s.assetRepo.ListActiveForUser(userID)
	if err != nil {
		return nil, err
	}

	slices := []model.DistributionSlice{}
	var total int64

	for _, asset := range assets {
		latest, err := s.snapshotRepo.GetLatestAtOrBefore(asset.ID, model.MonthYear{})
		if err != nil {
			return nil, err
		}
		if latest == nil {
			continue
		}

		total += latest.CurrentValue
		slices = append(slices, model.DistributionSlice{
			AssetID:      asset.ID,
			AssetName:    asset.Name,
			AssetTicker:  asset.Ticker,
			CurrentValue: latest.CurrentValue,
		})
	}

	if total > 0 {
		for i := range slices {
			slices[i].Percentage = float64(slices[i].CurrentValue) / float64(total) * 100
		}
	}

	return slices, nil
}

// SnapshotsForUser retrieves all of the user's asset snapshots up to the
// current month, joined with asset metadata and ordered chronologically.
func (s *ROIService) SnapshotsForUser(userID string) ([]model.AssetSnapshot, error) {
	return s.snapshotRepo.ListForUserUpTo(userID, model.MonthYear{})
}

// MonthlyAggregateSeries merges all of the user's asset snapshots up to the
// current month into one portfolio-wide value per (month, year), ordered
// chronologically. Buffer snapshots make the series contiguous even in
// months without transactions.
func (s *ROIService) MonthlyAggregateSeries(userID string) ([]model.MonthlyPoint, error) {
	snaps, err := s.snapshotRepo.ListForUserUpTo(userID, model.MonthYear{})
	if err != nil {
		return nil, err
	}
	return aggregateByMonth(snaps), nil
}

// aggregateByMonth sums snapshot values per calendar month. The input is
// ordered ascending by (year, month), so first occurrence order is already
// chronological.
func aggregateByMonth(snaps []model.AssetSnapshot) []model.MonthlyPoint {
	points := []model.MonthlyPoint{}
	index := map[model.MonthYear]int{}

	for _, snap := range snaps {
		key := snap.MonthYear()
		i, ok := index[key]
		if !ok {
			i = len(points)
			index[key] = i
			points = append(points, model.MonthlyPoint{Month: key.Month, Year: key.Year})
		}
		points[i].CurrentValue += snap.CurrentValue
	}

	return points
}

// CombinedPerformanceByYear computes portfolio performance per calendar
// year, from the first snapshotted year through the current one. For each
// year the closing value is the sum over assets of each asset's latest
// snapshot at or before December; the opening value is the prior year's
// closing. The return for a year is
//
//	closing - opening - invested + withdrawn
//
// with cash flows taken from the ledger, so value growth is separated from
// money moved in or out during the year.
func (s *ROIService) CombinedPerformanceByYear(userID string) ([]model.YearPerformance, error) {
	snaps, err := s.snapshotRepo.ListForUserUpTo(userID, model.MonthYear{})
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return []model.YearPerformance{}, nil
	}

	// Per-asset snapshot runs, preserving ascending (year, month) order.
	byAsset := map[string][]model.AssetSnapshot{}
	firstYear := snaps[0].Year
	for _, snap := range snaps {
		byAsset[snap.AssetID] = append(byAsset[snap.AssetID], snap)
		if snap.Year < firstYear {
			firstYear = snap.Year
		}
	}

	currentYear := time.Now().Year()
	years := []model.YearPerformance{}
	var opening int64

	for year := firstYear; year <= currentYear; year++ {
		var closing int64
		cutoff := model.MonthYear{Month: 12, Year: year}
		for _, run := range byAsset {
			if latest := latestUpTo(run, cutoff); latest != nil {
				closing += latest.CurrentValue
			}
		}

		yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		yearEnd := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
		invested, withdrawn, err := s.transactionRepo.InvestedAndWithdrawnBetween(userID, yearStart, yearEnd)
		if err != nil {
			return nil, err
		}

		roi := closing - opening - invested + withdrawn

		years = append(years, model.YearPerformance{
			Year:            year,
			OpeningValue:    opening,
			ClosingValue:    closing,
			InvestedAmount:  invested,
			WithdrawnAmount: withdrawn,
			ROIAmount:       roi,
			ROIPercentage:   percentageOf(roi, opening+invested),
		})

		opening = closing
	}

	return years, nil
}

// latestUpTo returns the last snapshot in the ascending run with
// (year, month) not exceeding the cutoff, or nil when the run starts later.
func latestUpTo(run []model.AssetSnapshot, cutoff model.MonthYear) *model.AssetSnapshot {
	for i := len(run) - 1; i >= 0; i-- {
		if !run[i].MonthYear().After(cutoff) {
			return &run[i]
		}
	}
	return nil
}

// percentageOf expresses amount as a percentage of base, returning zero when
// the base is not positive rather than dividing by zero.
func percentageOf(amount, base int64) float64 {
	if base <= 0 {
		return 0
	}
	return float64(amount) / float64(base) * 100
}
