package review

import "fmt"

// Seed is the deterministic starter set shown to a tenant on its first-ever
// load, before anything has been persisted for it.
func Seed(tenantName string) []Review {
	return []Review{
		{
			ID:     "1",
			Source: SourceGoogle,
			Author: "Hans Müller",
			Rating: 5,
			Text:   fmt.Sprintf("Cibo eccellente e atmosfera autentica da %s! Torneremo sicuramente.", tenantName),
			Date:   "2 giorni fa",
			Status: StatusPending,
		},
		{
			ID:     "2",
			Source: SourceTripAdvisor,
			Author: "Giulia Bianchi",
			Rating: 3,
			Text:   "Il posto è carino ma il servizio è stato un po' lento. Forse perché era domenica.",
			Date:   "1 settimana fa",
			Status: StatusPending,
		},
	}
}

// SyncCandidates are the canned imports used by the simulated platform sync.
// Sync is a simulation in this edition; there is no live platform polling.
func SyncCandidates() []Review {
	return []Review{
		{
			Source: SourceGoogle,
			Author: "Marco Verdi",
			Rating: 5,
			Text:   "Ottima birra e canederli fatti in casa buonissimi. Consigliato!",
		},
		{
			Source: SourceTripAdvisor,
			Author: "Tourist_UK_99",
			Rating: 4,
			Text:   "Great location near the sports zone. The garden is beautiful in winter too.",
		},
		{
			Source: SourceTheFork,
			Author: "Anna S.",
			Rating: 5,
			Text:   "Prenotato con sconto, ma avrei pagato prezzo pieno. Qualità altissima.",
		},
	}
}
