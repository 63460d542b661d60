package model

// Entity describes one business record type known to the backend adapter.
// Table is the relational backend's table name and doubles as the API name;
// Sheet is the spreadsheet tab holding the same data in the tabular backend,
// and Columns lists that tab's header row in positional order. Entities with
// an empty Sheet exist only in the relational backend.
type Entity struct {
	Table   string
	Sheet   string
	Columns []string
}

var entities = []Entity{
	{
		Table:   "products",
		Sheet:   "Produtos",
		Columns: []string{"ID", "Nome", "TipoEstampa", "Imagem"},
	},
	{
		Table:   "stamp_types",
		Sheet:   "TiposEstampa",
		Columns: []string{"ID", "Nome"},
	},
	{
		Table:   "failure_types",
		Sheet:   "TiposFalha",
		Columns: []string{"ID", "Nome", "Categoria"},
	},
	{
		Table:   "employees",
		Sheet:   "Funcionarios",
		Columns: []string{"ID", "Nome", "Funcao", "Email"},
	},
	{
		Table:   "print_entries",
		Sheet:   "Impressoes",
		Columns: []string{"ID", "Data", "TipoEstampa", "Quantidade", "Funcionario"},
	},
	{
		Table:   "failure_entries",
		Sheet:   "Falhas",
		Columns: []string{"ID", "Data", "Produto", "TipoFalha", "Quantidade", "Funcionario", "Observacoes"},
	},
	{
		Table:   "sewing_entries",
		Sheet:   "Costuras",
		Columns: []string{"ID", "Data", "Produto", "Quantidade", "Costureiras", "Funcionario", "Observacoes"},
	},
	{
		Table:   "sales_entries",
		Sheet:   "Vendas",
		Columns: []string{"ID", "Data", "Total", "Observacoes"},
	},
	{
		// Sale line items only exist in the relational backend; the sheet
		// revision recorded totals per day without an item breakdown.
		Table: "sale_items",
	},
	{
		Table:   "shipping_entries",
		Sheet:   "Envios",
		Columns: []string{"ID", "Data", "PedidosEnviados", "PedidosPendentes", "PersonalizadosAtrasados", "Observacoes"},
	},
	{
		Table:   "production_orders",
		Sheet:   "OrdensProducao",
		Columns: []string{"ID", "Pedido", "Status", "DataInicio", "DataFim", "Produto", "Quantidade", "Observacoes"},
	},
}

// EntityByName looks up an entity by its API (table) name
func EntityByName(name string) (Entity, bool) {
	for _, e := range entities {
		if e.Table == name {
			return e, true
		}
	}
	return Entity{}, false
}

// Entities returns the full catalog in declaration order
func Entities() []Entity {
	out := make([]Entity, len(entities))
	copy(out, entities)
	return out
}
