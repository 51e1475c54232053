package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"resale-dashboard/internal/models"
	"resale-dashboard/internal/services"
	"resale-dashboard/internal/store"

	"github.com/starfederation/datastar-go/datastar"
)

var fragmentFuncs = template.FuncMap{
	"pln": services.FormatPLN,
	"plnOpt": func(v *float64) string {
		if v == nil {
			return "-"
		}
		return services.FormatPLN(*v)
	},
	"strOpt": func(v *string) string {
		if v == nil {
			return "-"
		}
		return *v
	},
	"profitClass": services.ProfitClass,
}

var itemsTableTemplate = template.Must(template.New("itemsTable").Funcs(fragmentFuncs).Parse(`
<div id="items-content">
<table class="items-table">
<thead><tr>
<th data-on-click="@get('/sse/items?sort=name')">Nazwa</th>
<th data-on-click="@get('/sse/items?sort=category')">Kategoria</th>
<th data-on-click="@get('/sse/items?sort=purchase_price')">Cena zakupu</th>
<th data-on-click="@get('/sse/items?sort=status')">Status</th>
<th data-on-click="@get('/sse/items?sort=sell_price')">Cena sprzedaży</th>
<th data-on-click="@get('/sse/items?sort=sell_date')">Data sprzedaży</th>
<th data-on-click="@get('/sse/items?sort=profit')">Zysk</th>
<th>Akcje</th>
</tr></thead>
<tbody>
{{range .Items}}<tr>
<td>{{.Name}}</td>
<td><span class="category-badge">{{.Category}}</span></td>
<td>{{pln .PurchasePrice}}</td>
<td>{{.Status}}</td>
<td>{{plnOpt .SellPrice}}</td>
<td>{{strOpt .SellDate}}</td>
<td>{{plnOpt .Profit}}</td>
<td>
<div class="item-actions">
{{if not .Sold}}<button class="js-sell" data-id="{{.ID}}">Sprzedaj</button>{{end}}
<button class="js-edit" data-id="{{.ID}}" data-name="{{.Name}}" data-price="{{.PurchasePrice}}" data-category="{{.Category}}">Edytuj</button>
<button class="js-delete delete" data-id="{{.ID}}">Usuń</button>
</div>
</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

var analysisTableTemplate = template.Must(template.New("analysisTable").Funcs(fragmentFuncs).Parse(`
<div id="analysis-content">
<table class="analysis-table">
<thead><tr>
<th data-on-click="@get('/sse/analysis?sort=category')">Kategoria</th>
<th data-on-click="@get('/sse/analysis?sort=items_sold')">Sprzedane sztuki</th>
<th data-on-click="@get('/sse/analysis?sort=total_revenue')">Przychód</th>
<th data-on-click="@get('/sse/analysis?sort=average_profit')">Średni zysk</th>
<th data-on-click="@get('/sse/analysis?sort=total_profit')">Całkowity zysk</th>
</tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Category}}</td>
<td>{{.ItemsSold}}</td>
<td>{{pln .TotalRevenue}}</td>
<td>{{pln .AverageProfit}}</td>
<td class="{{profitClass .TotalProfit}}">{{pln .TotalProfit}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

var dashboardTemplate = template.Must(template.New("dashboardCards").Funcs(fragmentFuncs).Parse(`
<div id="dashboard-content" class="dashboard-grid">
<div class="card large-card">
<h3>Zysk według kategorii</h3>
{{range .ProfitBars}}
<div class="threshold-item">
<div class="threshold-row"><span class="threshold-path">{{.Category}}</span><span class="threshold-max">{{pln .TotalProfit}}</span></div>
<div class="progress-bar-container"><div class="progress-bar" style="width: {{printf "%.1f" .Share}}%"></div></div>
</div>
{{end}}
</div>
<div class="card">
<h3>Przegląd przedmiotów</h3>
<div class="stat-row"><span>📦 Wszystkie przedmioty</span><strong>{{.TotalItems}}</strong></div>
<div class="stat-row"><span>✅ Sprzedane przedmioty</span><strong>{{.SoldItems}}</strong></div>
</div>
<div class="card">
<h3>Ostatnie przedmioty</h3>
{{range .RecentItems}}
<div class="threshold-item">
<div><div class="threshold-path">{{.Name}}</div><small>Kupno: {{pln .PurchasePrice}}{{if .SellPrice}} | Sprzedaż: {{plnOpt .SellPrice}}{{end}}</small></div>
<div class="threshold-max{{if .Sold}} delete{{end}}">{{.Status}}</div>
</div>
{{end}}
</div>
</div>`))

// itemsSignals mirrors the filter/sort state the items page keeps in its
// datastar signals.
type itemsSignals struct {
	Category string `json:"category"`
	Search   string `json:"search"`
	SortKey  string `json:"sortKey"`
	SortDir  string `json:"sortDir"`
}

type analysisSignals struct {
	SortKey string `json:"analysisSortKey"`
	SortDir string `json:"analysisSortDir"`
}

type SSEHandlers struct {
	store     *store.Store
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewSSEHandlers(st *store.Store, dashboard *services.Dashboard, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{store: st, dashboard: dashboard, logger: logger}
}

// resolveSort applies the click-toggle rule server-side: the clicked column
// arrives as ?sort=, the previous state in the signals.
func resolveSort(clicked, prevKey, prevDir string, defaultDir services.Direction) *services.SortState {
	state := services.NewSortStateWith(prevKey, services.Direction(prevDir), defaultDir)
	if prevDir == "" {
		state.Direction = defaultDir
	}
	if clicked != "" {
		state.Toggle(clicked)
	}
	return state
}

// HandleItems re-renders the items table fragment from the current filter
// and sort signals. Every render re-reads the store, so a mutation followed
// by a fragment fetch always shows backend truth.
func (h *SSEHandlers) HandleItems(w http.ResponseWriter, r *http.Request) {
	var signals itemsSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.Warn("failed to read items signals", "error", err)
	}

	items, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("list items", "error", err)
		return
	}

	state := resolveSort(r.URL.Query().Get("sort"), signals.SortKey, signals.SortDir, services.Ascending)

	filtered := services.FilterItems(items, services.FilterSpec{
		Category:   signals.Category,
		SearchTerm: signals.Search,
	})
	views := services.SortItems(services.DecorateItems(filtered), state.Spec())

	sse := datastar.NewSSE(w, r)

	fragment, err := renderItemsTable(views)
	if err != nil {
		h.logger.Error("render items table", "error", err)
		return
	}
	sse.PatchElements(fragment)

	signalPatch, err := json.Marshal(map[string]any{
		"sortKey":    state.Key,
		"sortDir":    string(state.Direction),
		"categories": services.Categories(items),
	})
	if err != nil {
		h.logger.Error("marshal items signals", "error", err)
		return
	}
	sse.PatchSignals(signalPatch)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleAnalysis re-renders the analysis table and pushes the chart
// projections as signals for the client-side charting library.
func (h *SSEHandlers) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	var signals analysisSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.Warn("failed to read analysis signals", "error", err)
	}

	rows, err := h.store.Analysis(r.Context())
	if err != nil {
		h.logger.Error("load analysis", "error", err)
		return
	}

	// First render starts at total_profit descending, like the page did.
	prevKey := signals.SortKey
	prevDir := signals.SortDir
	if prevKey == "" {
		prevKey = "total_profit"
		prevDir = string(services.Descending)
	}
	state := resolveSort(r.URL.Query().Get("sort"), prevKey, prevDir, services.Descending)

	sorted := services.SortAnalysis(rows, state.Spec())

	sse := datastar.NewSSE(w, r)

	var buf strings.Builder
	if err := analysisTableTemplate.Execute(&buf, map[string]any{"Rows": sorted}); err != nil {
		h.logger.Error("render analysis table", "error", err)
		return
	}
	sse.PatchElements(buf.String())

	signalPatch, err := json.Marshal(map[string]any{
		"analysisSortKey": state.Key,
		"analysisSortDir": string(state.Direction),
		"pieData":         services.PieProjection(sorted),
		"barData":         services.BarProjection(sorted),
	})
	if err != nil {
		h.logger.Error("marshal analysis signals", "error", err)
		return
	}
	sse.PatchSignals(signalPatch)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleDashboard patches the dashboard cards from a fresh snapshot.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.dashboard.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("load dashboard snapshot", "error", err)
		return
	}

	sse := datastar.NewSSE(w, r)

	var buf strings.Builder
	if err := dashboardTemplate.Execute(&buf, snapshot); err != nil {
		h.logger.Error("render dashboard", "error", err)
		return
	}
	sse.PatchElements(buf.String())

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func renderItemsTable(views []models.ItemView) (string, error) {
	var buf strings.Builder
	err := itemsTableTemplate.Execute(&buf, map[string]any{"Items": views})
	return buf.String(), err
}
