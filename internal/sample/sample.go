// Package sample holds the illustrative datasets shown before anything has been uploaded.
package sample

import "github.com/tradelens/tradelens/internal/models"

// GDPGrowth is the aggregate ASEAN GDP growth series.
func GDPGrowth() []models.GDPGrowthRecord {
	return []models.GDPGrowthRecord{
		{Year: 2020, Consumption: 0.5, Investment: 0.3, Government: 1.1, NetExports: 0.2, GDPGrowth: 2.1, TradeVolume: 410},
		{Year: 2021, Consumption: 1.8, Investment: 1.0, Government: 0.7, NetExports: 0.4, GDPGrowth: 3.9, TradeVolume: 450},
		{Year: 2022, Consumption: 2.7, Investment: 1.5, Government: 0.5, NetExports: 0.5, GDPGrowth: 5.2, TradeVolume: 510},
		{Year: 2023, Consumption: 2.5, Investment: 1.3, Government: 0.4, NetExports: 0.5, GDPGrowth: 4.7, TradeVolume: 532},
		{Year: 2024, Consumption: 2.6, Investment: 1.4, Government: 0.5, NetExports: 0.6, GDPGrowth: 5.1, TradeVolume: 550},
	}
}

// TradeBalance is the aggregate ASEAN-US trade balance series.
func TradeBalance() []models.TradeBalanceRecord {
	return []models.TradeBalanceRecord{
		{Year: 2020, Exports: 290, Imports: -140, Balance: 150},
		{Year: 2021, Exports: 330, Imports: -155, Balance: 175},
		{Year: 2022, Exports: 348, Imports: -166, Balance: 182},
		{Year: 2023, Exports: 363, Imports: -169, Balance: 194},
		{Year: 2024, Exports: 375, Imports: -175, Balance: 200},
	}
}

// Macro seeds only the "all" bucket.
func Macro() models.MacroDataset {
	return models.MacroDataset{
		models.CountryAll: {GDPGrowth: GDPGrowth(), TradeBalance: TradeBalance()},
	}
}

// Industry is intentionally empty: industry data is never seeded.
func Industry() models.IndustryDataset {
	return models.IndustryDataset{}
}

// Company seeds the technology industry.
func Company() models.CompanyDataset {
	return models.CompanyDataset{
		"tech": {
			ID:   "tech",
			Name: "Technology",
			SubIndustries: []models.CompanySubIndustry{
				{
					Name: "Semiconductors",
					Companies: []models.CompanyRecord{
						{Name: "TSMC", Impact: -21.3, MarketCap: 512.4, Revenue: 73.6, EmployeeCount: 73400, MainMarkets: []string{"Taiwan", "China", "US"}},
						{Name: "UMC", Impact: -18.7, MarketCap: 21.8, Revenue: 8.1, EmployeeCount: 19500, MainMarkets: []string{"Taiwan", "China", "Singapore"}},
						{Name: "GlobalFoundries", Impact: -16.2, MarketCap: 32.5, Revenue: 7.4, EmployeeCount: 15000, MainMarkets: []string{"US", "Singapore", "Germany"}},
						{Name: "Micron", Impact: -14.8, MarketCap: 78.3, Revenue: 23.4, EmployeeCount: 48000, MainMarkets: []string{"US", "Malaysia", "Singapore"}},
						{Name: "Intel", Impact: -12.5, MarketCap: 156.7, Revenue: 54.2, EmployeeCount: 121100, MainMarkets: []string{"US", "Vietnam", "Malaysia"}},
					},
				},
				{
					Name: "Consumer Electronics",
					Companies: []models.CompanyRecord{
						{Name: "Samsung", Impact: -11.4, MarketCap: 342.1, Revenue: 197.6, EmployeeCount: 267937, MainMarkets: []string{"South Korea", "Vietnam", "Indonesia"}},
						{Name: "LG", Impact: -9.8, MarketCap: 21.3, Revenue: 63.2, EmployeeCount: 74000, MainMarkets: []string{"South Korea", "Vietnam", "Indonesia"}},
						{Name: "Sony", Impact: -8.7, MarketCap: 124.5, Revenue: 88.3, EmployeeCount: 109700, MainMarkets: []string{"Japan", "Malaysia", "Thailand"}},
						{Name: "Foxconn", Impact: -10.2, MarketCap: 48.7, Revenue: 214.6, EmployeeCount: 878429, MainMarkets: []string{"Taiwan", "China", "Vietnam"}},
						{Name: "Acer", Impact: -7.9, MarketCap: 2.4, Revenue: 8.1, EmployeeCount: 7000, MainMarkets: []string{"Taiwan", "Malaysia", "Philippines"}},
					},
				},
				{
					Name: "Software",
					Companies: []models.CompanyRecord{
						{Name: "Microsoft", Impact: -4.2, MarketCap: 2340.5, Revenue: 211.9, EmployeeCount: 221000, MainMarkets: []string{"US", "Singapore", "India"}},
						{Name: "Oracle", Impact: -3.8, MarketCap: 310.2, Revenue: 49.9, EmployeeCount: 143000, MainMarkets: []string{"US", "Singapore", "Malaysia"}},
						{Name: "SAP", Impact: -3.5, MarketCap: 167.8, Revenue: 33.2, EmployeeCount: 107415, MainMarkets: []string{"Germany", "Singapore", "Malaysia"}},
						{Name: "Salesforce", Impact: -4.3, MarketCap: 254.3, Revenue: 31.4, EmployeeCount: 73541, MainMarkets: []string{"US", "Singapore", "Philippines"}},
						{Name: "Adobe", Impact: -4.7, MarketCap: 245.8, Revenue: 17.6, EmployeeCount: 29239, MainMarkets: []string{"US", "India", "Singapore"}},
					},
				},
			},
		},
	}
}
