package watchlist

import "time"

// SeedEntries is the built-in demonstration watchlist.
func SeedEntries() []Entry {
	const (
		ofac = "OFAC-SDN-2024"
		eu   = "EU-CONSOL-2024"
		un   = "UN-CONSOL-2024"
		pep  = "WC-PEP-2024"
	)
	const (
		ofacName = "OFAC SDN"
		euName   = "EU Consolidated Sanctions"
		unName   = "UN Consolidated List"
		pepName  = "PEP Database"
	)
	return []Entry{
		{ID: "OFAC-001", ListID: ofac, ListName: ofacName, EntityName: "Ahmad Trading Corporation", EntityType: EntityBusiness, ReasonListed: "Sanctions Program: IRAN", DateListed: "2023-03-15", Country: "IR", Aliases: []string{"Ahmad Trade Corp", "ATC Holdings"}},
		{ID: "OFAC-002", ListID: ofac, ListName: ofacName, EntityName: "Mikhail Petrov", EntityType: EntityIndividual, ReasonListed: "Sanctions Program: RUSSIA", DateListed: "2022-06-01", Country: "RU", Aliases: []string{"M. Petrov", "Mikhail V. Petrov"}},
		{ID: "OFAC-003", ListID: ofac, ListName: ofacName, EntityName: "Petrov Holdings Ltd", EntityType: EntityBusiness, ReasonListed: "Sanctions Program: RUSSIA", DateListed: "2022-06-01", Country: "RU", Aliases: []string{"Petrov Holdings"}},
		{ID: "OFAC-004", ListID: ofac, ListName: ofacName, EntityName: "Hassan Al-Rahman", EntityType: EntityIndividual, ReasonListed: "Sanctions Program: SDGT", DateListed: "2021-11-20", Country: "SY", Aliases: []string{"H. Al-Rahman", "Hassan Rahman"}},
		{ID: "OFAC-005", ListID: ofac, ListName: ofacName, EntityName: "Desert Logistics LLC", EntityType: EntityBusiness, ReasonListed: "Sanctions Program: SYRIA", DateListed: "2023-01-10", Country: "SY", Aliases: []string{"Desert Logistics"}},
		{ID: "EU-001", ListID: eu, ListName: euName, EntityName: "EuroTrade Sanctions GmbH", EntityType: EntityBusiness, ReasonListed: "EU Council Decision 2022/xxx", DateListed: "2022-04-08", Country: "BY", Aliases: []string{"EuroTrade GmbH", "EuroTrade Sanctions"}},
		{ID: "EU-002", ListID: eu, ListName: euName, EntityName: "Volkov Industries JSC", EntityType: EntityBusiness, ReasonListed: "EU Council Regulation 833/2014", DateListed: "2022-03-01", Country: "RU", Aliases: []string{"Volkov Industries", "Volkov Ind."}},
		{ID: "EU-003", ListID: eu, ListName: euName, EntityName: "Viktor Volkov", EntityType: EntityIndividual, ReasonListed: "EU Council Regulation 833/2014", DateListed: "2022-03-01", Country: "RU", Aliases: []string{"V. Volkov", "Viktor A. Volkov"}},
		{ID: "UN-001", ListID: un, ListName: unName, EntityName: "Global Arms Trading Ltd", EntityType: EntityBusiness, ReasonListed: "UN Security Council Resolution 1718", DateListed: "2020-08-15", Country: "KP", Aliases: []string{"Global Arms Ltd", "Global Arms Trading"}},
		{ID: "UN-002", ListID: un, ListName: unName, EntityName: "Al-Noor Foundation", EntityType: EntityBusiness, ReasonListed: "UN Security Council Resolution 1267", DateListed: "2019-05-22", Country: "AF", Aliases: []string{"Al Noor Foundation", "Alnoor Foundation"}},
		{ID: "PEP-001", ListID: pep, ListName: pepName, EntityName: "Carlos Mendez-Silva", EntityType: EntityIndividual, ReasonListed: "Politically Exposed Person - Former Minister of Finance", DateListed: "2024-01-15", Country: "VE", Aliases: []string{"Carlos Mendez", "C. Mendez-Silva"}},
		{ID: "PEP-002", ListID: pep, ListName: pepName, EntityName: "Natalia Sokolova", EntityType: EntityIndividual, ReasonListed: "Politically Exposed Person - State Duma Member", DateListed: "2023-09-01", Country: "RU", Aliases: []string{"N. Sokolova"}},
		{ID: "OFAC-006", ListID: ofac, ListName: ofacName, EntityName: "Banco Delta Asia", EntityType: EntityBusiness, ReasonListed: "Sanctions Program: DPRK", DateListed: "2005-09-15", Country: "MO", Aliases: []string{"BDA", "Delta Asia Financial"}},
		{ID: "EU-004", ListID: eu, ListName: euName, EntityName: "Dmitri Kozlov", EntityType: EntityIndividual, ReasonListed: "EU Council Decision 2023/xxx", DateListed: "2023-07-15", Country: "RU", Aliases: []string{"D. Kozlov", "Dmitri K."}},
		{ID: "OFAC-007", ListID: ofac, ListName: ofacName, EntityName: "Tehran Petrochemical Co", EntityType: EntityBusiness, ReasonListed: "Sanctions Program: IRAN", DateListed: "2018-11-05", Country: "IR", Aliases: []string{"Tehran Petrochem", "TPC Iran"}},
		{ID: "UN-003", ListID: un, ListName: unName, EntityName: "Kim Chol-su", EntityType: EntityIndividual, ReasonListed: "UN Security Council Resolution 2371", DateListed: "2017-08-05", Country: "KP", Aliases: []string{"Kim Cholsu"}},
		{ID: "OFAC-008", ListID: ofac, ListName: ofacName, EntityName: "Petromax Energy Corp", EntityType: EntityBusiness, ReasonListed: "Sanctions Program: VENEZUELA", DateListed: "2020-02-18", Country: "VE", Aliases: []string{"Petromax", "Petromax Energy"}},
		{ID: "EU-005", ListID: eu, ListName: euName, EntityName: "Belarusian Industrial Bank", EntityType: EntityBusiness, ReasonListed: "EU Council Regulation 765/2006", DateListed: "2021-06-24", Country: "BY", Aliases: []string{"BIB", "Belarus Ind Bank"}},
	}
}

// SeedDataFiles is the catalog matching SeedEntries.
func SeedDataFiles() []DataFile {
	at := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	return []DataFile{
		{ID: "OFAC-SDN-2024", Name: "OFAC SDN List", Type: FileStandard, RecordCount: 12500, LastUpdated: at("2026-02-12T08:00:00Z")},
		{ID: "EU-CONSOL-2024", Name: "EU Consolidated Sanctions", Type: FileStandard, RecordCount: 8200, LastUpdated: at("2026-02-11T12:00:00Z")},
		{ID: "UN-CONSOL-2024", Name: "UN Consolidated List", Type: FileStandard, RecordCount: 6100, LastUpdated: at("2026-02-10T16:00:00Z")},
		{ID: "WC-PEP-2024", Name: "WorldCompliance PEP Database", Type: FileStandard, RecordCount: 42000, LastUpdated: at("2026-02-12T06:00:00Z")},
		{ID: "CUSTOM-001", Name: "Internal Watchlist", Type: FileBankDefined, RecordCount: 150, LastUpdated: at("2026-02-01T09:00:00Z")},
	}
}
