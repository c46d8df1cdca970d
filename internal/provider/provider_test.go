package provider_test

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradelens/tradelens/internal/ingest"
	"github.com/tradelens/tradelens/internal/models"
	"github.com/tradelens/tradelens/internal/persist"
	"github.com/tradelens/tradelens/internal/provider"
	"github.com/tradelens/tradelens/internal/sample"
)

type memTier struct {
	mu   sync.Mutex
	docs map[models.Kind][]byte
}

func newMemTier() *memTier {
	return &memTier{docs: map[models.Kind][]byte{}}
}

func (m *memTier) Read(_ context.Context, kind models.Kind) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[kind]
	if !ok {
		return nil, models.ErrDocumentNotFound
	}

	return doc, nil
}

func (m *memTier) Write(_ context.Context, kind models.Kind, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[kind] = append([]byte(nil), doc...)

	return nil
}

func (m *memTier) get(kind models.Kind) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.docs[kind]
}

func testTiers() (provider.Tiers, *memTier, *memTier) {
	local, server := newMemTier(), newMemTier()
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return provider.Tiers{Local: local, Server: server, Log: log, Timeout: time.Second}, local, server
}

func table(t *testing.T, csv string) *ingest.Table {
	t.Helper()

	tbl, err := ingest.Parse(strings.NewReader(csv))
	require.NoError(t, err)

	return tbl
}

func TestMacro_LoadFromLocalRepairsServer(t *testing.T) {
	t.Parallel()

	tiers, local, server := testTiers()
	local.docs[models.KindMacro] = []byte(`{"indonesia":{"gdpGrowth":[],"tradeBalance":[{"year":2020,"exports":290,"imports":-140,"balance":150}]}}`)

	m := provider.NewMacro(tiers)
	src := m.Load(context.Background())

	assert.Equal(t, persist.SourceLocal, src)
	assert.Equal(t, []string{"indonesia"}, m.CountriesWithData())

	var onServer models.MacroDataset
	require.NoError(t, json.Unmarshal(server.get(models.KindMacro), &onServer))
	assert.Equal(t, m.Snapshot().Data, onServer)
	assert.Contains(t, m.LastUpdated(), "indonesia")
}

func TestProviders_DefaultsWhenNothingStored(t *testing.T) {
	t.Parallel()

	tiers, _, _ := testTiers()
	ctx := context.Background()

	m := provider.NewMacro(tiers)
	assert.Equal(t, persist.SourceDefault, m.Load(ctx))
	assert.Equal(t, sample.Macro(), m.Snapshot().Data)

	ind := provider.NewIndustry(tiers)
	assert.Equal(t, persist.SourceDefault, ind.Load(ctx))
	assert.Empty(t, ind.Snapshot().Data)

	c := provider.NewCompany(tiers)
	assert.Equal(t, persist.SourceDefault, c.Load(ctx))
	assert.Equal(t, sample.Company(), c.Snapshot().Data)
}

func TestMacro_UploadTradeForSelectedCountry(t *testing.T) {
	t.Parallel()

	tiers, local, server := testTiers()
	m := provider.NewMacro(tiers)
	require.NoError(t, m.SelectCountry("Indonesia"))

	res, err := m.UploadTrade(context.Background(), table(t, "year,exports,imports\n2022,348,-166\n2020,290,-140\n"), false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Applied)
	assert.Equal(t, []string{"indonesia"}, res.Touched)

	tb := m.Selected().TradeBalance
	require.Len(t, tb, 2)
	assert.Equal(t, 2020, tb[0].Year)
	assert.Equal(t, 2022, tb[1].Year)
	assert.InDelta(t, 150, tb[0].Balance, 1e-9)
	assert.InDelta(t, 182, tb[1].Balance, 1e-9)

	assert.Empty(t, m.Selected().GDPGrowth)
	assert.Equal(t, res.MergedAt, m.LastUpdated()["indonesia"])

	m.Flush()
	assert.NotEmpty(t, local.get(models.KindMacro))
	assert.JSONEq(t, string(local.get(models.KindMacro)), string(server.get(models.KindMacro)))
}

func TestMacro_BulkUploadRoutesByCountry(t *testing.T) {
	t.Parallel()

	tiers, _, _ := testTiers()
	m := provider.NewMacro(tiers)

	csv := "year,consumption,investment,government,netExports,gdpGrowth,tradeVolume,country\n" +
		"2021,1,1,1,1,4,10,vietnam\n" +
		"2020,1,1,1,1,3,9,vietnam\n" +
		"2020,1,1,1,1,5,8,thailand\n"

	res, err := m.UploadGDP(context.Background(), table(t, csv), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"thailand", "vietnam"}, res.Touched)

	require.NoError(t, m.SelectCountry("vietnam"))
	gdp := m.Selected().GDPGrowth
	require.Len(t, gdp, 2)
	assert.Equal(t, 2020, gdp[0].Year)
	assert.Contains(t, m.CountriesWithData(), "thailand")
}

func TestMacro_SelectedFallsBackOnlyForMissingCountry(t *testing.T) {
	t.Parallel()

	tiers, _, _ := testTiers()
	m := provider.NewMacro(tiers)
	require.NoError(t, m.SelectCountry("vietnam"))

	before := m.Selected()
	assert.Equal(t, sample.GDPGrowth(), before.GDPGrowth)
	assert.Equal(t, sample.TradeBalance(), before.TradeBalance)

	_, err := m.UploadGDP(context.Background(), table(t, "year,gdpGrowth\n2023,5.1\n"), false)
	require.NoError(t, err)

	after := m.Selected()
	require.Len(t, after.GDPGrowth, 1)
	assert.InDelta(t, 5.1, after.GDPGrowth[0].GDPGrowth, 1e-9)
	assert.Empty(t, after.TradeBalance, "vietnam has no trade series of its own")

	require.NoError(t, m.SelectCountry("laos"))
	assert.Equal(t, sample.TradeBalance(), m.Selected().TradeBalance)
}

func TestMacro_SelectCountryRejectsUnknown(t *testing.T) {
	t.Parallel()

	tiers, _, _ := testTiers()
	m := provider.NewMacro(tiers)

	err := m.SelectCountry("atlantis")
	require.ErrorIs(t, err, models.ErrUnknownCountry)
	assert.Equal(t, models.CountryAll, m.SelectedCountry())
}

func TestMacro_RejectedUploadKeepsSnapshot(t *testing.T) {
	t.Parallel()

	tiers, local, _ := testTiers()
	m := provider.NewMacro(tiers)
	before := m.Snapshot()

	_, err := m.UploadTrade(context.Background(), table(t, "exports,imports\n1,2\n"), false)
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	assert.Equal(t, before, m.Snapshot())
	assert.Nil(t, local.get(models.KindMacro))
}

func TestIndustry_UploadAccumulates(t *testing.T) {
	t.Parallel()

	tiers, local, _ := testTiers()
	ind := provider.NewIndustry(tiers)

	csv := "id,name,exportValue,importValue,riskLevel\n" +
		"elec,Electronics,10,4,High\n" +
		"elec,Electronics,5,1,High\n"

	_, err := ind.Upload(context.Background(), table(t, csv))
	require.NoError(t, err)

	rec, ok := ind.Find("elec")
	require.True(t, ok)
	assert.InDelta(t, 15, rec.ExportValue, 1e-9)
	assert.InDelta(t, 5, rec.ImportValue, 1e-9)
	assert.Equal(t, models.RiskHigh, rec.RiskLevel)

	var stored models.IndustryDataset
	require.NoError(t, json.Unmarshal(local.get(models.KindIndustry), &stored))
	assert.Len(t, stored, 1)
}

func TestCompany_UploadDedupsCaseInsensitively(t *testing.T) {
	t.Parallel()

	tiers, _, _ := testTiers()
	c := provider.NewCompany(tiers)

	csv := "industryId,industryName,subIndustryName,companyName,impact\n" +
		"auto,Automotive,EV,Acme,-1\n" +
		"auto,Automotive,EV,acme,-2\n"

	_, err := c.Upload(context.Background(), table(t, csv))
	require.NoError(t, err)

	ind, ok := c.Industry("auto")
	require.True(t, ok)
	require.Len(t, ind.SubIndustries, 1)
	require.Len(t, ind.SubIndustries[0].Companies, 1)
	assert.InDelta(t, -2, ind.SubIndustries[0].Companies[0].Impact, 1e-9)

	// Sample industries are kept alongside the upload.
	_, ok = c.Industry("tech")
	assert.True(t, ok)
}

func TestSnapshot_IsACopy(t *testing.T) {
	t.Parallel()

	tiers, _, _ := testTiers()
	c := provider.NewCompany(tiers)

	snap := c.Snapshot()
	delete(snap.Data, "tech")

	_, ok := c.Industry("tech")
	assert.True(t, ok)
}

func TestReadFile_CSV(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/upload.csv"
	require.NoError(t, os.WriteFile(path, []byte("year,exports\n2020,1\n"), 0o600))

	tbl, err := provider.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"year", "exports"}, tbl.Header())
}
