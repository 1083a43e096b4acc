package seed

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"stockledger/internal/domain"
)

// Backup grava o estado completo (catálogo e vendas) no mesmo formato lido por
// Load, para que o arquivo possa voltar como SEED_FILE.
func Backup(w io.Writer, products []domain.Product, sales []domain.SaleRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Data{Products: products, Sales: sales}); err != nil {
		return fmt.Errorf("falha ao gerar backup: %w", err)
	}
	return enc.Close()
}

// BackupFileName monta o nome do arquivo de backup, e.g. backup_inventario_20260315.yaml.
func BackupFileName(now time.Time) string {
	return fmt.Sprintf("backup_inventario_%s.yaml", now.Format("20060102"))
}
