package config

import "biasbuster-backend/internal/domain"

// relaxedProfile lists instruments whose 200-period EMA behaviour is too
// erratic for the full rule set. Resolved here once, so evaluation code only
// ever sees the profile field.
var relaxedProfile = map[string]bool{
	"Bitcoin":  true,
	"Ethereum": true,
}

type instrumentDef struct {
	name     string
	symbol   string
	pipSize  float64
	flag     string
	category domain.Category
	dynamic  bool
}

var instrumentDefs = []instrumentDef{
	{"US Oil (WTI)", "CL=F", 0.01, "🛢️", domain.CategoryMetalsEnergy, false},
	{"Gold", "GC=F", 0.1, "🥇", domain.CategoryMetalsEnergy, false},
	{"Silver", "SI=F", 0.005, "🥈", domain.CategoryMetalsEnergy, false},
	{"Brent Crude Oil", "BZ=F", 0.01, "🇬🇧🛢️", domain.CategoryMetalsEnergy, false},
	{"Natural Gas", "NG=F", 0.001, "🔥", domain.CategoryMetalsEnergy, false},
	{"Platinum", "PL=F", 0.1, "💍", domain.CategoryMetalsEnergy, false},
	{"Palladium", "PA=F", 0.1, "💎", domain.CategoryMetalsEnergy, false},

	{"EUR/USD", "EURUSD=X", 0.0001, "🇪🇺🇺🇸", domain.CategoryForex, false},
	{"USD/JPY", "USDJPY=X", 0.01, "🇺🇸🇯🇵", domain.CategoryForex, false},
	{"AUD/USD", "AUDUSD=X", 0.0001, "🇦🇺🇺🇸", domain.CategoryForex, false},
	{"USD/CHF", "USDCHF=X", 0.0001, "🇺🇸🇨🇭", domain.CategoryForex, false},
	{"NZD/USD", "NZDUSD=X", 0.0001, "🇳🇿🇺🇸", domain.CategoryForex, false},
	{"USD/CAD", "USDCAD=X", 0.0001, "🇺🇸🇨🇦", domain.CategoryForex, false},
	{"EUR/GBP", "EURGBP=X", 0.0001, "🇪🇺🇬🇧", domain.CategoryForex, false},
	{"EUR/JPY", "EURJPY=X", 0.01, "🇪🇺🇯🇵", domain.CategoryForex, false},
	{"GBP/JPY", "GBPJPY=X", 0.01, "🇬🇧🇯🇵", domain.CategoryForex, false},
	{"AUD/JPY", "AUDJPY=X", 0.01, "🇦🇺🇯🇵", domain.CategoryForex, false},
	{"NZD/JPY", "NZDJPY=X", 0.01, "🇳🇿🇯🇵", domain.CategoryForex, false},
	{"GBP/CHF", "GBPCHF=X", 0.0001, "🇬🇧🇨🇭", domain.CategoryForex, false},
	{"EUR/CAD", "EURCAD=X", 0.0001, "🇪🇺🇨🇦", domain.CategoryForex, false},
	{"AUD/CAD", "AUDCAD=X", 0.0001, "🇦🇺🇨🇦", domain.CategoryForex, false},
	{"CAD/JPY", "CADJPY=X", 0.01, "🇨🇦🇯🇵", domain.CategoryForex, false},
	{"CHF/JPY", "CHFJPY=X", 0.01, "🇨🇭🇯🇵", domain.CategoryForex, false},

	{"Bitcoin", "BTC-USD", 1.0, "₿", domain.CategoryCryptoScalping, false},
	{"Ethereum", "ETH-USD", 0.1, "Ξ", domain.CategoryCryptoScalping, false},
	{"Solana", "SOL-USD", 0.01, "☀️", domain.CategoryCryptoScalping, false},
	{"Ripple", "XRP-USD", 0.0001, "💧", domain.CategoryCryptoScalping, false},
	{"Cardano", "ADA-USD", 0.0001, "₳", domain.CategoryCryptoScalping, false},
	{"Dogecoin", "DOGE-USD", 0.00001, "🐕", domain.CategoryCryptoScalping, false},
	{"Polkadot", "DOT-USD", 0.01, "⚫", domain.CategoryCryptoScalping, false},

	{"MCX Crude Oil", "CL=F", 0.01, "🇮🇳🛢️", domain.CategoryIntradayIndian, false},
	{"MCX Natural Gas", "NG=F", 0.1, "🇮🇳🔥", domain.CategoryIntradayIndian, false},
	{"MCX Copper", "HG=F", 0.05, "🇮🇳🧱", domain.CategoryIntradayIndian, false},
	{"Nifty 50", "^NSEI", 0.05, "🇮🇳", domain.CategoryIntradayIndian, false},
	{"Bank Nifty", "^NSEBANK", 0.05, "🇮🇳🏦", domain.CategoryIntradayIndian, false},
	{"Sensex", "^BSESN", 0.05, "🇮🇳📈", domain.CategoryIntradayIndian, false},

	{"Nifty Future", "^NSEI", 0.05, "🇮🇳📈", domain.CategoryNSEFutures, true},
	{"Bank Nifty Future", "^NSEBANK", 0.05, "🇮🇳🏦", domain.CategoryNSEFutures, true},
}

// Instruments returns the static instrument universe with rule profiles
// resolved.
func Instruments() []domain.InstrumentSpec {
	specs := make([]domain.InstrumentSpec, 0, len(instrumentDefs))
	for _, d := range instrumentDefs {
		profile := domain.ProfileStandard
		if relaxedProfile[d.name] {
			profile = domain.ProfileRelaxed
		}
		specs = append(specs, domain.InstrumentSpec{
			Name:            d.name,
			Symbol:          d.symbol,
			PipSize:         d.pipSize,
			Flag:            d.flag,
			Category:        d.category,
			Profile:         profile,
			DynamicContract: d.dynamic,
		})
	}
	return specs
}
