package dto

// SyncResultResponse resultado de una corrida de sincronización de pedidos.
type SyncResultResponse struct {
	Source        string `json:"source"`
	OrdersFetched int    `json:"orders_fetched"`
	DealsCreated  int    `json:"deals_created"`
	DealsSkipped  int    `json:"deals_skipped"`
	Errors        int    `json:"errors"`
}

// SyncRunResponse respuesta del disparo manual de sincronización.
type SyncRunResponse struct {
	Started bool                 `json:"started"`
	Results []SyncResultResponse `json:"results,omitempty"`
	Message string               `json:"message,omitempty"`
}
