package razor_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/gorazor/pkg/razor"
	"github.com/yaklabco/gorazor/pkg/razor/passes"
	"github.com/yaklabco/gorazor/pkg/source"
)

const benchTemplate = `@using Shop.Models
@inherits ShopPage
@section Scripts {
    <script src="/site.js"></script>
}
<ul class="items @(Model.Compact ? "compact" : "")">
@foreach (var item in Model.Items)
{
    <li data-id="@item.Id">@item.Name <span>@item.Price.ToString("C")</span></li>
}
</ul>
@* footer *@
<p>Total: @Model.Total</p>
@functions {
    public string Title => "Shop";
}
`

func BenchmarkEngine_Process(b *testing.B) {
	sizes := []struct {
		name   string
		copies int
	}{
		{"small", 1},
		{"large", 50},
	}

	engine := razor.New(razor.DefaultOptions(), passes.Register)
	for _, size := range sizes {
		body := strings.Repeat(benchTemplate[strings.Index(benchTemplate, "<ul"):strings.Index(benchTemplate, "@functions")], size.copies)
		text := "@using Shop.Models\n" + body
		b.Run(size.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for b.Loop() {
				doc, err := engine.Process(source.New(text, "Index.cshtml"))
				if err != nil {
					b.Fatal(err)
				}
				_ = doc.GeneratedCode()
			}
		})
	}
}

func BenchmarkEngine_ProcessParallel(b *testing.B) {
	engine := razor.New(razor.DefaultOptions(), passes.Register)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := engine.Process(source.New(benchTemplate, "Index.cshtml")); err != nil {
				b.Error(err)
				return
			}
		}
	})
}
