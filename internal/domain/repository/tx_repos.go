package repository

// TxRepos agrupa los repositorios atados a una misma transacción.
type TxRepos struct {
	Variants  VariantRepository
	Movements StockMovementRepository
	Orders    PurchaseOrderRepository
	Customers CustomerRepository
}
