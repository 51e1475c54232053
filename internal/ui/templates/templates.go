// Package templates holds the server-rendered page shells. Pages are static
// scaffolding; live content arrives through the /sse fragment endpoints.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

type navLink struct {
	Href  string
	Label string
}

var navLinks = []navLink{
	{Href: "/", Label: "Pulpit"},
	{Href: "/items", Label: "Przedmioty"},
	{Href: "/analysis", Label: "Analiza"},
	{Href: "/ai-agent", Label: "Agent AI"},
	{Href: "/ai-model", Label: "Model AI"},
}

func layout(title, active string, body func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="pl">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s - Vinted Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@main/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
<link rel="stylesheet" href="/static/app.css">
</head>
<body>
<div class="app">
<aside class="sidebar"><h2>Vinted</h2><nav>`, title); err != nil {
			return err
		}
		for _, link := range navLinks {
			class := ""
			if link.Href == active {
				class = ` class="active"`
			}
			if _, err := fmt.Fprintf(w, `<a href="%s"%s>%s</a>`, link.Href, class, link.Label); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(w, `</nav></aside>
<main class="main-content">`); err != nil {
			return err
		}
		if err := body(w); err != nil {
			return err
		}
		_, err := fmt.Fprint(w, `</main>
</div>
</body>
</html>`)
		return err
	})
}

// Dashboard renders the overview page; the cards fragment loads over SSE.
func Dashboard() templ.Component {
	return layout("Pulpit", "/", func(w io.Writer) error {
		_, err := fmt.Fprint(w, `
<h1>Pulpit</h1>
<div id="dashboard-content" data-on-load="@get('/sse/dashboard')">Ładowanie...</div>`)
		return err
	})
}

// Items renders the item list page: filter controls, import section and the
// add/edit/sell modals. The table fragment re-renders whenever the filter
// signals change or a mutation completes.
func Items() templ.Component {
	return layout("Przedmioty", "/items", func(w io.Writer) error {
		_, err := fmt.Fprint(w, `
<div data-signals="{category: 'All', search: '', sortKey: '', sortDir: '', categories: ['All']}">
<div class="page-header">
<h1>Przedmioty</h1>
<div class="page-header-actions">
<input type="text" placeholder="Wyszukaj po nazwie..." class="search-input"
	data-bind-search data-on-input__debounce.300ms="@get('/sse/items')">
<select class="category-filter" data-bind-category data-on-change="@get('/sse/items')">
<template data-for="c in $categories"><option data-attr-value="c" data-text="c"></option></template>
</select>
<button id="add-item-btn" class="add-item-btn">Dodaj przedmiot</button>
</div>
</div>
<div class="import-section">
<form id="import-form">
<input type="file" name="file" accept=".csv, .xlsx">
<button type="submit">Importuj</button>
</form>
<p id="import-message" class="import-message" hidden></p>
</div>
<div id="items-content" data-on-load="@get('/sse/items')">Ładowanie...</div>
<button id="items-refresh" hidden data-on-click="@get('/sse/items')"></button>
<div id="item-modal" class="modal" hidden>
<div class="modal-content">
<h2 id="item-modal-title">Dodaj przedmiot</h2>
<form id="item-form">
<input type="hidden" name="id">
<input name="name" placeholder="Nazwa" required>
<input name="purchase_price" type="number" step="0.01" min="0" placeholder="Cena zakupu" required>
<input name="category" placeholder="Kategoria" required>
<button type="submit">Zapisz</button>
<button type="button" class="js-close">Anuluj</button>
</form>
</div>
</div>
<div id="sell-modal" class="modal" hidden>
<div class="modal-content">
<h2>Sprzedaj przedmiot</h2>
<form id="sell-form">
<input type="hidden" name="id">
<input name="sell_price" type="number" step="0.01" min="0" placeholder="Cena sprzedaży" required>
<input name="sell_date" type="date" required>
<button type="submit">Potwierdź sprzedaż</button>
<button type="button" class="js-close">Anuluj</button>
</form>
</div>
</div>
</div>
<script src="/static/items.js"></script>`)
		return err
	})
}

// Analysis renders the per-category profit page. Table and chart data arrive
// as one SSE response; charts redraw from the pie/bar signals.
func Analysis() templ.Component {
	return layout("Analiza", "/analysis", func(w io.Writer) error {
		_, err := fmt.Fprint(w, `
<div data-signals="{analysisSortKey: '', analysisSortDir: '', pieData: null, barData: null}">
<h1>Analiza zysków</h1>
<p>Poniżej znajduje się szczegółowa analiza zysków dla poszczególnych kategorii.</p>
<div class="charts-container">
<div class="chart-wrapper"><h2>Udział w zysku (kategorie zyskowne)</h2><canvas id="pie-chart"></canvas></div>
<div class="chart-wrapper"><h2>Przychód vs Zysk</h2><canvas id="bar-chart"></canvas></div>
</div>
<div id="analysis-content" data-on-load="@get('/sse/analysis')">Ładowanie danych...</div>
<div data-effect="renderCharts($pieData, $barData)"></div>
</div>
<script src="/static/analysis.js"></script>`)
		return err
	})
}

// AIAgent renders the description-generation form.
func AIAgent() templ.Component {
	return layout("Agent AI", "/ai-agent", func(w io.Writer) error {
		_, err := fmt.Fprint(w, `
<div class="ai-agent-page">
<h1>Agent AI do generowania opisów</h1>
<div class="form-container">
<form id="describe-form" data-endpoint="/api/generate-description" data-kind="description">
<input type="file" name="image" accept="image/*">
<textarea name="notes" rows="5" placeholder="Wpisz uwagi dotyczące produktu (np. stan, marka, kolor, rozmiar)"></textarea>
<button type="submit">Generuj opis</button>
</form>
</div>
<p id="ai-error" class="error-message" hidden></p>
<div id="generated-content" class="generated-content"></div>
</div>
<script src="/static/generate.js"></script>`)
		return err
	})
}

// AIModel renders the model-photo generation form.
func AIModel() templ.Component {
	return layout("Model AI", "/ai-model", func(w io.Writer) error {
		_, err := fmt.Fprint(w, `
<div class="ai-agent-page">
<h1>Agent AI do generowania zdjęć na modelu</h1>
<div class="form-container">
<form id="model-form" data-endpoint="/api/generate-image" data-kind="image">
<input type="file" name="image" accept="image/*" required>
<button type="submit">Generuj zdjęcie</button>
</form>
</div>
<p id="ai-error" class="error-message" hidden></p>
<div id="generated-content" class="generated-content"></div>
</div>
<script src="/static/generate.js"></script>`)
		return err
	})
}
