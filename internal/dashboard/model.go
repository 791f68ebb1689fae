package dashboard

import (
	"math"
	"time"

	"github.com/Wuchinator/artisan-market/internal/analytics"
	"github.com/Wuchinator/artisan-market/internal/trend"
)

const topContactedLimit = 5

type Totals struct {
	Artisans  int64 `json:"artisans"`
	Reviews   int64 `json:"reviews"`
	Contacts  int64 `json:"contacts"`
	Favorites int64 `json:"favorites"`
}

type ModalFunnel struct {
	Shown          int64   `json:"shown"`
	Converted      int64   `json:"converted"`
	Dismissed      int64   `json:"dismissed"`
	ConversionRate float64 `json:"conversionRate"`
}

// NewModalFunnel derives the conversion rate as a percentage rounded to one
// decimal. It is 0 when the modal was never shown.
func NewModalFunnel(shown, converted, dismissed int64) ModalFunnel {
	f := ModalFunnel{Shown: shown, Converted: converted, Dismissed: dismissed}
	if shown > 0 {
		f.ConversionRate = math.Round(float64(converted)/float64(shown)*1000) / 10
	}
	return f
}

type Dashboard struct {
	Totals       Totals                    `json:"totals"`
	Trends       trend.DashboardTrends     `json:"trends"`
	ModalFunnel  ModalFunnel               `json:"modalFunnel"`
	TopContacted []*analytics.ArtisanStats `json:"topContacted"`
	GeneratedAt  time.Time                 `json:"generatedAt"`
}
