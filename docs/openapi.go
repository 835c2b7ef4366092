// Package docs describes the catalog API for documentation tooling.
package docs

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/example/product-catalog/models"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// Info is the metadata block of the API document
type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// APIInfo is the published metadata of the catalog API
var APIInfo = Info{
	Title:       "Product Catalog API",
	Version:     "1.0",
	Description: "A RESTful API for managing a product catalog.",
}

const (
	productTag   = "Product"
	bearerScheme = "bearerAuth"
	schemaPrefix = "#/components/schemas/"
)

// OpenAPI builds the OpenAPI 3 document for the routes served under basePath
func OpenAPI(basePath string) *openapi3.T {
	b := builder{schemas: schemas()}
	products := basePath + "/products"

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       APIInfo.Title,
			Version:     APIInfo.Version,
			Description: APIInfo.Description,
		},
		Servers: openapi3.Servers{{URL: "/"}},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: b.schemas,
			SecuritySchemes: openapi3.SecuritySchemes{
				bearerScheme: {Value: openapi3.NewSecurityScheme().WithType("http").WithScheme("bearer")},
			},
		},
	}

	list := b.operation("getProducts", "Get all products", listParameters()...)
	list.AddResponse(http.StatusOK, b.jsonResponse("Products retrieved successfully", "ProductPageResponse"))
	list.AddResponse(http.StatusBadRequest, b.jsonResponse("Invalid parameters", "ErrorResponse"))
	doc.AddOperation(products, http.MethodGet, list)

	create := b.operation("createProduct", "Create a new product")
	create.RequestBody = b.jsonBody("CreateProductRequest")
	create.Security = bearer()
	create.AddResponse(http.StatusCreated, b.jsonResponse("Product created successfully", "ProductResponse"))
	create.AddResponse(http.StatusBadRequest, b.jsonResponse("Invalid input", "ErrorResponse"))
	create.AddResponse(http.StatusConflict, b.jsonResponse("Product with given SKU already exists", "ErrorResponse"))
	doc.AddOperation(products, http.MethodPost, create)

	batch := b.operation("createProductsBatch", "Create several products in one transaction")
	batch.RequestBody = b.jsonBody("BatchCreateProductRequest")
	batch.Security = bearer()
	batch.AddResponse(http.StatusCreated, b.jsonArrayResponse("Products created successfully", "ProductResponse"))
	batch.AddResponse(http.StatusBadRequest, b.jsonResponse("Invalid input", "ErrorResponse"))
	batch.AddResponse(http.StatusConflict, b.jsonResponse("A SKU in the batch already exists", "ErrorResponse"))
	doc.AddOperation(products+"/batch", http.MethodPost, batch)

	lowStock := b.operation("getLowStockProducts", "Get low stock products", pageParameters()...)
	lowStock.AddResponse(http.StatusOK, b.jsonResponse("Low stock products retrieved successfully", "ProductPageResponse"))
	doc.AddOperation(products+"/low-stock", http.MethodGet, lowStock)

	get := b.operation("getProduct", "Get product by ID", idParameter())
	get.AddResponse(http.StatusOK, b.jsonResponse("Product found", "ProductResponse"))
	get.AddResponse(http.StatusNotFound, b.jsonResponse("Product not found", "ErrorResponse"))
	doc.AddOperation(products+"/{id}", http.MethodGet, get)

	update := b.operation("updateProduct", "Update an existing product", idParameter())
	update.RequestBody = b.jsonBody("UpdateProductRequest")
	update.Security = bearer()
	update.AddResponse(http.StatusOK, b.jsonResponse("Product updated successfully", "ProductResponse"))
	update.AddResponse(http.StatusBadRequest, b.jsonResponse("Invalid input", "ErrorResponse"))
	update.AddResponse(http.StatusNotFound, b.jsonResponse("Product not found", "ErrorResponse"))
	update.AddResponse(http.StatusConflict, b.jsonResponse("Product was modified concurrently", "ErrorResponse"))
	doc.AddOperation(products+"/{id}", http.MethodPut, update)

	del := b.operation("deleteProduct", "Delete a product by ID", idParameter())
	del.Security = bearer()
	del.AddResponse(http.StatusNoContent, openapi3.NewResponse().WithDescription("Product deleted successfully"))
	del.AddResponse(http.StatusNotFound, b.jsonResponse("Product not found", "ErrorResponse"))
	doc.AddOperation(products+"/{id}", http.MethodDelete, del)

	return doc
}

// JSON renders the document as indented JSON
func JSON(doc *openapi3.T) ([]byte, error) {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal openapi json: %w", err)
	}
	return b, nil
}

// YAML renders the document as YAML
func YAML(doc *openapi3.T) ([]byte, error) {
	b, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi yaml: %w", err)
	}
	return b, nil
}

type builder struct {
	schemas openapi3.Schemas
}

// ref points at a component schema; the value is kept so the document validates without resolving refs
func (b builder) ref(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef(schemaPrefix+name, b.schemas[name].Value)
}

func (b builder) operation(id, summary string, params ...*openapi3.Parameter) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	op.Tags = []string{productTag}
	for _, p := range params {
		op.AddParameter(p)
	}
	return op
}

func (b builder) jsonResponse(description, schema string) *openapi3.Response {
	return openapi3.NewResponse().WithDescription(description).WithJSONSchemaRef(b.ref(schema))
}

func (b builder) jsonArrayResponse(description, schema string) *openapi3.Response {
	array := openapi3.NewArraySchema()
	array.Items = b.ref(schema)
	return openapi3.NewResponse().WithDescription(description).WithJSONSchema(array)
}

func (b builder) jsonBody(schema string) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(b.ref(schema))}
}

func bearer() *openapi3.SecurityRequirements {
	return openapi3.NewSecurityRequirements().With(openapi3.NewSecurityRequirement().Authenticate(bearerScheme))
}

func idParameter() *openapi3.Parameter {
	return openapi3.NewPathParameter("id").WithSchema(openapi3.NewUUIDSchema())
}

func pageParameters() []*openapi3.Parameter {
	return []*openapi3.Parameter{
		openapi3.NewQueryParameter("page").WithSchema(openapi3.NewIntegerSchema().WithMin(0).WithMax(models.MaxPageNumber).WithDefault(0)),
		openapi3.NewQueryParameter("size").WithSchema(openapi3.NewIntegerSchema().WithMin(1).WithMax(models.MaxPageSize).WithDefault(models.DefaultPageSize)),
		openapi3.NewQueryParameter("sortBy").WithSchema(openapi3.NewStringSchema().WithEnum(sortFields()...)),
		openapi3.NewQueryParameter("sortDir").WithSchema(openapi3.NewStringSchema().WithEnum("asc", "desc")),
	}
}

func listParameters() []*openapi3.Parameter {
	return append(pageParameters(),
		openapi3.NewQueryParameter("name").WithSchema(openapi3.NewStringSchema()),
		openapi3.NewQueryParameter("category").WithSchema(openapi3.NewStringSchema().WithEnum(categoryNames()...)),
		openapi3.NewQueryParameter("active").WithSchema(openapi3.NewBoolSchema()),
	)
}

func sortFields() []any {
	return []any{
		string(models.SortByCreatedAt),
		string(models.SortByName),
		string(models.SortByPrice),
		string(models.SortBySKU),
		string(models.SortByStockQuantity),
	}
}

func categoryNames() []any {
	var names []any
	for _, c := range models.Categories() {
		names = append(names, c.DisplayName())
	}
	return names
}

func priceSchema() *openapi3.Schema {
	s := openapi3.NewStringSchema().WithFormat("decimal")
	s.Description = fmt.Sprintf("Positive amount with at most %d integer digits and %d decimal places",
		models.MaxPriceIntDigits, models.MaxPriceScale)
	s.Example = "9.99"
	return s
}

func object(required []string, properties map[string]*openapi3.Schema) *openapi3.SchemaRef {
	s := openapi3.NewObjectSchema().WithProperties(properties)
	if len(required) > 0 {
		s = s.WithRequired(required)
	}
	return openapi3.NewSchemaRef("", s)
}

func schemas() openapi3.Schemas {
	out := openapi3.Schemas{
		"CreateProductRequest": object([]string{"name", "price"}, map[string]*openapi3.Schema{
			"name":        openapi3.NewStringSchema().WithMaxLength(255),
			"description": openapi3.NewStringSchema().WithNullable().WithMaxLength(1000),
			"price":       priceSchema(),
		}),
		"UpdateProductRequest": object(nil, map[string]*openapi3.Schema{
			"name":          openapi3.NewStringSchema().WithMaxLength(255),
			"description":   openapi3.NewStringSchema().WithMaxLength(1000),
			"price":         priceSchema(),
			"category":      openapi3.NewStringSchema().WithEnum(categoryNames()...),
			"stockQuantity": openapi3.NewIntegerSchema().WithMin(0),
			"minStockLevel": openapi3.NewIntegerSchema().WithMin(0),
			"active":        openapi3.NewBoolSchema(),
		}),
		"ProductResponse": object(nil, map[string]*openapi3.Schema{
			"id":          openapi3.NewUUIDSchema(),
			"sku":         openapi3.NewStringSchema(),
			"name":        openapi3.NewStringSchema(),
			"description": openapi3.NewStringSchema().WithNullable(),
			"price":       priceSchema(),
		}),
		"ErrorResponse": object(nil, map[string]*openapi3.Schema{
			"timestamp": openapi3.NewDateTimeSchema(),
			"status":    openapi3.NewIntegerSchema(),
			"error":     openapi3.NewStringSchema(),
			"message":   openapi3.NewStringSchema(),
			"path":      openapi3.NewStringSchema(),
			"errorCode": openapi3.NewStringSchema(),
			"validationErrors": openapi3.NewArraySchema().WithItems(openapi3.NewObjectSchema().WithProperties(map[string]*openapi3.Schema{
				"field":         openapi3.NewStringSchema(),
				"rejectedValue": {},
				"message":       openapi3.NewStringSchema(),
			})),
		}),
	}

	b := builder{schemas: out}

	batchItems := openapi3.NewArraySchema().WithMinItems(1).WithMaxItems(models.MaxBatchSize)
	batchItems.Items = b.ref("CreateProductRequest")
	batch := openapi3.NewObjectSchema().WithRequired([]string{"products"})
	batch.Properties = openapi3.Schemas{"products": {Value: batchItems}}
	out["BatchCreateProductRequest"] = openapi3.NewSchemaRef("", batch)

	products := openapi3.NewArraySchema()
	products.Items = b.ref("ProductResponse")
	page := openapi3.NewObjectSchema().WithProperties(map[string]*openapi3.Schema{
		"pageNumber":    openapi3.NewIntegerSchema(),
		"pageSize":      openapi3.NewIntegerSchema(),
		"totalElements": openapi3.NewInt64Schema(),
		"totalPages":    openapi3.NewIntegerSchema(),
		"first":         openapi3.NewBoolSchema(),
		"last":          openapi3.NewBoolSchema(),
		"hasNext":       openapi3.NewBoolSchema(),
		"hasPrevious":   openapi3.NewBoolSchema(),
	})
	page.Properties["products"] = &openapi3.SchemaRef{Value: products}
	out["ProductPageResponse"] = openapi3.NewSchemaRef("", page)

	return out
}
