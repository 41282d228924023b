package records

// Stores aggregates every collection, opened once at process start and
// injected into whatever needs them.
type Stores struct {
	Ideas          *IdeasStore
	Testers        *TestersStore
	Clients        *ClientsStore
	Projects       *ProjectsStore
	Finances       *FinancesStore
	Requests       *RequestsStore
	Settings       *SettingsStore
	Customizations *CustomizationsStore
}

// Open creates every store under dataDir.
func Open(dataDir string, defaults CompanySettings) *Stores {
	return &Stores{
		Ideas:          NewIdeasStore(dataDir),
		Testers:        NewTestersStore(dataDir),
		Clients:        NewClientsStore(dataDir),
		Projects:       NewProjectsStore(dataDir),
		Finances:       NewFinancesStore(dataDir),
		Requests:       NewRequestsStore(dataDir),
		Settings:       NewSettingsStore(dataDir, defaults),
		Customizations: NewCustomizationsStore(dataDir),
	}
}
