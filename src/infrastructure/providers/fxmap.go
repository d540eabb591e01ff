package providers

// fxSpec names the Yahoo FX ticker for a country and whether the quote must
// be inverted. Invert is true for USD/LOCAL tickers (e.g. JPY=X) so that the
// produced series always reads higher = stronger local currency.
type fxSpec struct {
	Ticker string
	Invert bool
}

var fxMap = map[string]fxSpec{
	// Euro bloc (proxied with EUR)
	"Austria":     {Ticker: "EUR=X", Invert: false},
	"Belgium":     {Ticker: "EUR=X", Invert: false},
	"France":      {Ticker: "EUR=X", Invert: false},
	"Germany":     {Ticker: "EUR=X", Invert: false},
	"Ireland":     {Ticker: "EUR=X", Invert: false},
	"Italy":       {Ticker: "EUR=X", Invert: false},
	"Netherlands": {Ticker: "EUR=X", Invert: false},
	"Spain":       {Ticker: "EUR=X", Invert: false},

	// Developed
	"Australia":      {Ticker: "AUD=X", Invert: false},
	"Canada":         {Ticker: "CAD=X", Invert: true},
	"Denmark":        {Ticker: "DKK=X", Invert: true},
	"Norway":         {Ticker: "NOK=X", Invert: true},
	"Sweden":         {Ticker: "SEK=X", Invert: true},
	"Switzerland":    {Ticker: "CHF=X", Invert: true},
	"United Kingdom": {Ticker: "GBP=X", Invert: false},
	"Japan":          {Ticker: "JPY=X", Invert: true},
	"New Zealand":    {Ticker: "NZD=X", Invert: false},

	// Asia
	"China":       {Ticker: "CNY=X", Invert: true},
	"Hong Kong":   {Ticker: "HKD=X", Invert: true},
	"India":       {Ticker: "INR=X", Invert: true},
	"Indonesia":   {Ticker: "IDR=X", Invert: true},
	"Malaysia":    {Ticker: "MYR=X", Invert: true},
	"Philippines": {Ticker: "PHP=X", Invert: true},
	"Philipines":  {Ticker: "PHP=X", Invert: true}, // spelling used in the curated sheet
	"Singapore":   {Ticker: "SGD=X", Invert: true},
	"South Korea": {Ticker: "KRW=X", Invert: true},
	"Taiwan":      {Ticker: "TWD=X", Invert: true},
	"Thailand":    {Ticker: "THB=X", Invert: true},

	// LatAm
	"Brazil": {Ticker: "BRL=X", Invert: true},
	"Chile":  {Ticker: "CLP=X", Invert: true},
	"Mexico": {Ticker: "MXN=X", Invert: true},
	"Peru":   {Ticker: "PEN=X", Invert: true},

	// EMEA / Middle East
	"Poland":       {Ticker: "PLN=X", Invert: true},
	"South Africa": {Ticker: "ZAR=X", Invert: true},
	"Turkey":       {Ticker: "TRY=X", Invert: true},
	"Israel":       {Ticker: "ILS=X", Invert: true},

	// Gulf (often pegged)
	"Saudi Arabia":         {Ticker: "SAR=X", Invert: true},
	"United Arab Emirates": {Ticker: "AED=X", Invert: true},
	"Qatar":                {Ticker: "QAR=X", Invert: true},
	"Kuwait":               {Ticker: "KWD=X", Invert: true},
}
