package seed

import (
	"math/rand"
	"time"

	"stockledger/internal/ledger"
)

// Options controla a montagem do ledger inicial.
type Options struct {
	File        string // YAML opcional; vazio usa Catalog()
	Sales       bool   // gera histórico quando o arquivo não traz vendas
	HistoryDays int
	SalesCount  int
	RandSeed    int64 // 0 usa o relógio
	Now         time.Time
}

// NewLedger monta o ledger da sessão a partir do arquivo de semente (ou do
// catálogo embutido) e, se pedido, de um histórico gerado.
func NewLedger(opts Options) (*ledger.Ledger, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	data := Data{Products: Catalog()}
	if opts.File != "" {
		loaded, err := Load(opts.File)
		if err != nil {
			return nil, err
		}
		if len(loaded.Products) > 0 {
			data.Products = loaded.Products
		}
		data.Sales = loaded.Sales
	}

	if opts.Sales && len(data.Sales) == 0 {
		seed := opts.RandSeed
		if seed == 0 {
			seed = opts.Now.UnixNano()
		}
		data.Sales = History(data.Products, opts.HistoryDays, opts.SalesCount, rand.New(rand.NewSource(seed)), opts.Now)
	}

	return ledger.New(ledger.WithProducts(data.Products), ledger.WithSales(data.Sales)), nil
}
