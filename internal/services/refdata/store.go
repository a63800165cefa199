// Package refdata loads the stock universe reference file and serves
// ticker -> sector / asset-class lookups for the analyzer and optimizer.
package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/anupamdhas/artha/internal/common"
	"github.com/anupamdhas/artha/internal/interfaces"
	"github.com/anupamdhas/artha/internal/models"
)

// tickerSuffix derives the exchange-qualified ticker from the exchange symbol.
const tickerSuffix = ".NS"

// Store holds the universe reference data in memory. Reload can race
// live requests, so access goes through a RWMutex.
type Store struct {
	path   string
	logger *common.Logger

	mu       sync.RWMutex
	records  []models.UniverseRecord // ticker ascending
	byTicker map[string]models.UniverseRecord
}

// NewStore loads the universe CSV at path.
func NewStore(path string, logger *common.Logger) (*Store, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	s := &Store{path: path, logger: logger}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the universe file, returning the record count.
func (s *Store) Reload() (int, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return 0, fmt.Errorf("failed to open universe file %s: %w", s.path, err)
	}
	defer f.Close()

	records, err := parseUniverse(f)
	if err != nil {
		return 0, fmt.Errorf("failed to parse universe file %s: %w", s.path, err)
	}

	byTicker := make(map[string]models.UniverseRecord, len(records))
	for _, r := range records {
		byTicker[r.Ticker] = r
	}

	s.mu.Lock()
	s.records = records
	s.byTicker = byTicker
	s.mu.Unlock()

	s.logger.Info().Int("records", len(records)).Str("path", s.path).Msg("Universe reference data loaded")
	return len(records), nil
}

// parseUniverse reads universe rows from a CSV with a header naming at
// least Symbol and Sector. AssetClass defaults to Equity when the
// column is absent, matching the reference file convention.
func parseUniverse(r io.Reader) ([]models.UniverseRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("missing header row: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	symbolIdx, ok := cols["symbol"]
	if !ok {
		return nil, fmt.Errorf("header must include a Symbol column")
	}
	sectorIdx, ok := cols["sector"]
	if !ok {
		return nil, fmt.Errorf("header must include a Sector column")
	}
	nameIdx, hasName := cols["name"]
	classIdx, hasClass := cols["assetclass"]

	field := func(row []string, idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var records []models.UniverseRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		symbol := strings.ToUpper(field(row, symbolIdx))
		if symbol == "" {
			continue
		}

		rec := models.UniverseRecord{
			Symbol:     symbol,
			Ticker:     symbol + tickerSuffix,
			Sector:     field(row, sectorIdx),
			AssetClass: "Equity",
		}
		if rec.Sector == "" {
			rec.Sector = models.UnknownCategory
		}
		if hasName {
			rec.Name = field(row, nameIdx)
		}
		if hasClass {
			if c := field(row, classIdx); c != "" {
				rec.AssetClass = c
			}
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Ticker < records[j].Ticker })
	return records, nil
}

// SectorOf returns the ticker's sector, or models.UnknownCategory.
func (s *Store) SectorOf(ticker string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.byTicker[strings.ToUpper(ticker)]; ok {
		return rec.Sector
	}
	return models.UnknownCategory
}

// AssetClassOf returns the ticker's asset class, or models.UnknownCategory.
func (s *Store) AssetClassOf(ticker string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.byTicker[strings.ToUpper(ticker)]; ok {
		return rec.AssetClass
	}
	return models.UnknownCategory
}

// AllSectors returns the known sectors, sorted and de-duplicated.
func (s *Store) AllSectors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.records, func(r models.UniverseRecord) string { return r.Sector })
}

// AllAssetClasses returns the known asset classes, sorted and de-duplicated.
func (s *Store) AllAssetClasses() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.records, func(r models.UniverseRecord) string { return r.AssetClass })
}

func distinct(records []models.UniverseRecord, key func(models.UniverseRecord) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Candidates returns tickers whose sector AND asset class are both in
// the given sets, in ascending ticker order. The intersection keeps
// downstream selection reproducible for identical reference data.
func (s *Store) Candidates(sectors, assetClasses []string) []string {
	sectorSet := toSet(sectors)
	classSet := toSet(assetClasses)

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, r := range s.records {
		if _, ok := sectorSet[r.Sector]; !ok {
			continue
		}
		if _, ok := classSet[r.AssetClass]; !ok {
			continue
		}
		out = append(out, r.Ticker)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Record returns the full universe row for a ticker.
func (s *Store) Record(ticker string) (models.UniverseRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byTicker[strings.ToUpper(ticker)]
	return rec, ok
}

// Records returns all universe rows in ascending ticker order.
func (s *Store) Records() []models.UniverseRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.UniverseRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Ensure Store implements ReferenceStore
var _ interfaces.ReferenceStore = (*Store)(nil)
