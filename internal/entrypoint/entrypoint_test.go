package entrypoint

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openoda/geoaddress/internal/apispec"
	"github.com/openoda/geoaddress/internal/ordered"
)

func mustParse(t *testing.T, src string) *apispec.Document {
	t.Helper()
	doc, err := apispec.Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

func linksOf(t *testing.T, out *ordered.Map) *ordered.Map {
	t.Helper()
	links := out.GetMap("_links")
	require.NotNil(t, links)
	return links
}

func TestResolveBasePath(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "servers first entry wins",
			src:  `{"servers": [{"url": "/from/servers"}, {"url": "/second"}], "basePath": "/legacy"}`,
			want: "/from/servers",
		},
		{
			name: "basePath when servers absent",
			src:  `{"basePath": "/legacy"}`,
			want: "/legacy",
		},
		{
			name: "default when both absent",
			src:  `{}`,
			want: DefaultBasePath,
		},
		{
			name: "empty servers sequence falls through",
			src:  `{"servers": [], "basePath": "/legacy"}`,
			want: "/legacy",
		},
		{
			name: "server entry without url falls through",
			src:  `{"servers": [{"description": "no url"}], "basePath": "/legacy"}`,
			want: "/legacy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveBasePath(mustParse(t, tt.src)))
		})
	}
}

func TestSelfLinkAlwaysComplete(t *testing.T) {
	builder := NewBuilder(DefaultIdentity())

	for _, src := range []string{`{}`, `{"info": {"title": "T"}}`, `{"paths": {}}`} {
		out := builder.Build(mustParse(t, src))
		self := linksOf(t, out).GetMap("self")
		require.NotNil(t, self, "spec %s", src)

		for _, key := range []string{"href", "id", "name", "status", "version", "title", "description", "swagger-ui", "openapi"} {
			assert.True(t, self.Has(key), "spec %s missing self.%s", src, key)
		}
		assert.Equal(t, "running", self.GetString("status"))
	}
}

func TestSelfLinkDefaults(t *testing.T) {
	out := NewBuilder(DefaultIdentity()).Build(mustParse(t, `{}`))
	self := linksOf(t, out).GetMap("self")

	assert.Equal(t, DefaultBasePath, self.GetString("href"))
	assert.Equal(t, "geographicaddress", self.GetString("id"))
	assert.Equal(t, "tmf673", self.GetString("name"))
	assert.Equal(t, fallbackVersion, self.GetString("version"))
	assert.Equal(t, "geographicaddress", self.GetString("title"))
	assert.Empty(t, self.GetString("description"))
}

func TestSelfLinkFromInfo(t *testing.T) {
	src := `{"info": {"title": "Address API", "description": "Manages addresses", "version": "4.0.0"}}`
	out := NewBuilder(Identity{ComponentName: "addr", ReleaseName: "rel"}).Build(mustParse(t, src))
	self := linksOf(t, out).GetMap("self")

	assert.Equal(t, "addr", self.GetString("id"))
	assert.Equal(t, "rel", self.GetString("name"))
	assert.Equal(t, "Address API", self.GetString("title"))
	assert.Equal(t, "Manages addresses", self.GetString("description"))
	assert.Equal(t, "4.0.0", self.GetString("version"))
}

func TestInfoNeverShadowsExplicitFields(t *testing.T) {
	src := `{"info": {"status": "X", "href": "/evil", "id": "evil", "x-vendor": "acme", "contact": {"name": "ops"}}}`
	out := NewBuilder(DefaultIdentity()).Build(mustParse(t, src))
	self := linksOf(t, out).GetMap("self")

	assert.Equal(t, "running", self.GetString("status"))
	assert.Equal(t, DefaultBasePath, self.GetString("href"))
	assert.Equal(t, "geographicaddress", self.GetString("id"))

	// Extension metadata is surfaced after the explicit fields, in the
	// spec's own key order.
	assert.Equal(t, "acme", self.GetString("x-vendor"))
	assert.True(t, self.Has("contact"))
	keys := self.Keys()
	assert.Equal(t, []string{"href", "id", "name", "status", "version", "title", "description", "swagger-ui", "openapi", "x-vendor", "contact"}, keys)
}

func TestToolingLinksNeverDoubled(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		swaggerUI string
		openapi   string
	}{
		{
			name:      "base with trailing separator",
			src:       `{"servers": [{"url": "/base/"}]}`,
			swaggerUI: "/base/docs/",
			openapi:   "/base/openapi.json",
		},
		{
			name:      "base without trailing separator",
			src:       `{"basePath": "/base"}`,
			swaggerUI: "/base/docs/",
			openapi:   "/base/openapi.json",
		},
		{
			name:      "absolute base keeps scheme separator",
			src:       `{"servers": [{"url": "https://api.example.com/base/"}]}`,
			swaggerUI: "https://api.example.com/base/docs/",
			openapi:   "https://api.example.com/base/openapi.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewBuilder(DefaultIdentity()).Build(mustParse(t, tt.src))
			self := linksOf(t, out).GetMap("self")
			assert.Equal(t, tt.swaggerUI, self.GetString("swagger-ui"))
			assert.Equal(t, tt.openapi, self.GetString("openapi"))
		})
	}
}

func TestOperationLinks(t *testing.T) {
	src := `{
		"basePath": "/base/",
		"paths": {
			"/foo": {
				"get": {"operationId": "listFoo", "tags": ["a"]},
				"post": {"operationId": "createFoo", "summary": "Creates a foo"}
			},
			"/foo/{id}": {
				"get": {"operationId": "getFoo", "description": "Gets one foo", "summary": "ignored"},
				"delete": {"summary": "no operationId, skipped"}
			}
		}
	}`

	out := NewBuilder(DefaultIdentity()).Build(mustParse(t, src))
	links := linksOf(t, out)

	assert.Equal(t, []string{"self", "listFoo", "createFoo", "getFoo"}, links.Keys())

	listFoo := links.GetMap("listFoo")
	require.NotNil(t, listFoo)
	assert.Equal(t, "/base/foo", listFoo.GetString("href"))
	assert.Equal(t, "GET", listFoo.GetString("method"))
	assert.Empty(t, listFoo.GetString("description"))
	assert.Equal(t, "listFoo", listFoo.GetString("operationId"))
	tags, _ := listFoo.Get("tags")
	assert.Equal(t, []any{"a"}, tags)

	createFoo := links.GetMap("createFoo")
	assert.Equal(t, "Creates a foo", createFoo.GetString("description"))
	assert.False(t, createFoo.Has("tags"))

	getFoo := links.GetMap("getFoo")
	assert.Equal(t, "Gets one foo", getFoo.GetString("description"))
	assert.Equal(t, "/base/foo/{id}", getFoo.GetString("href"))
}

func TestOperationWithEmptyTagsOmitsField(t *testing.T) {
	src := `{"paths": {"/foo": {"get": {"operationId": "listFoo", "tags": []}}}}`
	out := NewBuilder(DefaultIdentity()).Build(mustParse(t, src))
	assert.False(t, linksOf(t, out).GetMap("listFoo").Has("tags"))
}

func TestDuplicateOperationIDLastWins(t *testing.T) {
	src := `{
		"paths": {
			"/a": {"get": {"operationId": "shared", "summary": "first"}},
			"/b": {"get": {"operationId": "shared", "summary": "second"}}
		}
	}`

	out := NewBuilder(DefaultIdentity()).Build(mustParse(t, src))
	links := linksOf(t, out)

	// One link, holding the last definition, in the original position.
	assert.Equal(t, []string{"self", "shared"}, links.Keys())
	shared := links.GetMap("shared")
	assert.Equal(t, "second", shared.GetString("description"))
	assert.Equal(t, DefaultBasePath+"/b", shared.GetString("href"))
}

func TestMethodCaseNormalized(t *testing.T) {
	src := `{"paths": {"/foo": {"GET": {"operationId": "listFoo"}, "Patch": {"operationId": "patchFoo"}}}}`
	out := NewBuilder(DefaultIdentity()).Build(mustParse(t, src))
	links := linksOf(t, out)

	assert.Equal(t, "GET", links.GetMap("listFoo").GetString("method"))
	assert.Equal(t, "PATCH", links.GetMap("patchFoo").GetString("method"))
}

func TestEmptySpecYieldsOnlySelf(t *testing.T) {
	out := NewBuilder(DefaultIdentity()).Build(mustParse(t, `{}`))
	assert.Equal(t, []string{"self"}, linksOf(t, out).Keys())
}

func TestNilDocumentYieldsOnlySelf(t *testing.T) {
	out := NewBuilder(DefaultIdentity()).Build(nil)
	links := linksOf(t, out)
	assert.Equal(t, []string{"self"}, links.Keys())
	assert.Equal(t, DefaultBasePath, links.GetMap("self").GetString("href"))
}

func TestScenarioFromGuidelines(t *testing.T) {
	src := `{"paths": {"/foo": {"get": {"operationId": "listFoo", "tags": ["a"]}}}}`
	out := NewBuilder(DefaultIdentity()).Build(mustParse(t, src))

	entry := linksOf(t, out).GetMap("listFoo")
	require.NotNil(t, entry)
	assert.Equal(t, DefaultBasePath+"/foo", entry.GetString("href"))
	assert.Equal(t, "GET", entry.GetString("method"))
	assert.Empty(t, entry.GetString("description"))
	assert.Equal(t, "listFoo", entry.GetString("operationId"))
	tags, _ := entry.Get("tags")
	assert.Equal(t, []any{"a"}, tags)
}

func TestBuildOutputDeterministic(t *testing.T) {
	doc := mustParse(t, `{
		"info": {"title": "T", "version": "1", "x-extra": true},
		"paths": {
			"/b": {"get": {"operationId": "opB"}},
			"/a": {"get": {"operationId": "opA"}}
		}
	}`)
	builder := NewBuilder(DefaultIdentity())

	first, err := json.Marshal(builder.Build(doc))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := json.Marshal(builder.Build(doc))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}

	// Paths appear in document traversal order, not sorted.
	links := linksOf(t, builder.Build(doc))
	assert.Equal(t, []string{"self", "opB", "opA"}, links.Keys())
}

func TestBuilderFillsEmptyIdentity(t *testing.T) {
	out := NewBuilder(Identity{}).Build(nil)
	self := linksOf(t, out).GetMap("self")
	assert.Equal(t, DefaultComponentName, self.GetString("id"))
	assert.Equal(t, DefaultReleaseName, self.GetString("name"))
}
