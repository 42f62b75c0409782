package dto

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
// Los campos presentes dependen del rol: admin ve totales globales,
// supplier sus productos/órdenes/RFQs abiertas y buyer sus RFQs/órdenes.
type DashboardStatsDTO struct {
	Role string `json:"role"`

	// admin
	TotalUsers    *int `json:"total_users,omitempty"`
	TotalProducts *int `json:"total_products,omitempty"`
	TotalOrders   *int `json:"total_orders,omitempty"`
	TotalRFQs     *int `json:"total_rfqs,omitempty"`

	// supplier
	MyProducts  *int `json:"my_products,omitempty"`
	PendingRFQs *int `json:"pending_rfqs,omitempty"`

	// supplier y buyer
	MyOrders *int `json:"my_orders,omitempty"`

	// buyer
	MyRFQs *int `json:"my_rfqs,omitempty"`
}
