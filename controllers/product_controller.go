package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/repositories"
	"github.com/HSouheill/shop_backend/utils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const productImageFolder = "products"

// ProductStore is the product persistence used by the controller
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	ListLowStock(ctx context.Context) ([]models.Product, error)
	Replace(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ProductController struct {
	store  ProductStore
	images utils.ImageStore
	log    *logrus.Entry
}

func NewProductController(store ProductStore, images utils.ImageStore, log *logrus.Entry) *ProductController {
	return &ProductController{store: store, images: images, log: log}
}

func (pc *ProductController) GetProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	products, err := pc.store.List(ctx)
	if err != nil {
		return respondError(c, pc.log, err, "Failed to fetch products")
	}
	return respond(c, http.StatusOK, "Products retrieved successfully", products)
}

// GetLowStock lists products at or below their own alert threshold
func (pc *ProductController) GetLowStock(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	products, err := pc.store.ListLowStock(ctx)
	if err != nil {
		return respondError(c, pc.log, err, "Failed to fetch low stock products")
	}
	return respond(c, http.StatusOK, "Low stock products retrieved successfully", products)
}

func (pc *ProductController) GetProduct(c echo.Context) error {
	product, err := pc.find(c)
	if err != nil {
		return err
	}
	if product == nil {
		return nil
	}
	return respond(c, http.StatusOK, "Product retrieved successfully", product)
}

// find loads the :id product, writing the error response itself when it
// cannot. A nil product with nil error means a response was already sent.
func (pc *ProductController) find(c echo.Context) (*models.Product, error) {
	id, ok := paramID(c)
	if !ok {
		return nil, fail(c, http.StatusBadRequest, "Invalid ID")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	product, err := pc.store.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fail(c, http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return nil, respondError(c, pc.log, err, "Failed to fetch product")
	}
	return product, nil
}

// CreateProduct accepts JSON or a multipart form with an optional image
func (pc *ProductController) CreateProduct(c echo.Context) error {
	input, err := pc.readInput(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return fail(c, http.StatusBadRequest, "Product name is required")
	}

	product := &models.Product{MinStockAlert: models.DefaultMinStockAlert}
	applyProductInput(product, input)
	if product.SKU == "" {
		product.SKU = "SKU-" + strings.ToUpper(uuid.NewString()[:8])
	}

	if image, err := pc.saveImage(c); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	} else if image != "" {
		product.Image = image
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := pc.store.Create(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return fail(c, http.StatusBadRequest, "A product with this SKU or barcode already exists")
		}
		return respondError(c, pc.log, err, "Failed to create product")
	}
	return respond(c, http.StatusCreated, "Product created successfully", product)
}

// UpdateProduct changes only the supplied fields and replaces the image when
// a new one is uploaded.
func (pc *ProductController) UpdateProduct(c echo.Context) error {
	product, err := pc.find(c)
	if err != nil || product == nil {
		return err
	}
	input, err := pc.readInput(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	applyProductInput(product, input)

	oldImage := product.Image
	image, err := pc.saveImage(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if image != "" {
		product.Image = image
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := pc.store.Replace(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Product not found")
		}
		if errors.Is(err, repositories.ErrDuplicate) {
			return fail(c, http.StatusBadRequest, "A product with this SKU or barcode already exists")
		}
		return respondError(c, pc.log, err, "Failed to update product")
	}
	if image != "" && oldImage != "" {
		if err := pc.images.Remove(oldImage); err != nil {
			pc.log.WithError(err).Warn("Failed to remove replaced product image")
		}
	}
	return respond(c, http.StatusOK, "Product updated successfully", product)
}

func (pc *ProductController) DeleteProduct(c echo.Context) error {
	product, err := pc.find(c)
	if err != nil || product == nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := pc.store.Delete(ctx, product.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Product not found")
		}
		return respondError(c, pc.log, err, "Failed to delete product")
	}
	if product.Image != "" {
		if err := pc.images.Remove(product.Image); err != nil {
			pc.log.WithError(err).Warn("Failed to remove product image")
		}
	}
	return respond(c, http.StatusOK, "Product deleted successfully", nil)
}

// GetBarcode renders the product's barcode, or its SKU when it has none
func (pc *ProductController) GetBarcode(c echo.Context) error {
	product, err := pc.find(c)
	if err != nil || product == nil {
		return err
	}
	content := product.Barcode
	if content == "" {
		content = product.SKU
	}
	png, err := utils.BarcodePNG(content, c.QueryParam("format"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Failed to generate barcode: "+err.Error())
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func (pc *ProductController) readInput(c echo.Context) (models.ProductInput, error) {
	var input models.ProductInput
	if !isMultipart(c) {
		err := c.Bind(&input)
		return input, err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return input, err
	}
	str := func(key string) *string {
		vals, ok := form.Value[key]
		if !ok || len(vals) == 0 {
			return nil
		}
		v := strings.TrimSpace(vals[0])
		return &v
	}
	input.Name = str("name")
	input.SKU = str("sku")
	input.Barcode = str("barcode")
	input.Category = str("category")
	input.Location = str("location")
	input.Brand = str("brand")
	input.Supplier = str("supplier")
	input.Unit = str("unit")
	if v := str("stock"); v != nil {
		n := utils.IntOr(*v, 0)
		input.Stock = &n
	}
	if v := str("costPrice"); v != nil {
		f := utils.FloatOr(*v, 0)
		input.CostPrice = &f
	}
	if v := str("salePrice"); v != nil {
		f := utils.FloatOr(*v, 0)
		input.SalePrice = &f
	}
	if v := str("minStockAlert"); v != nil {
		n := utils.IntOr(*v, models.DefaultMinStockAlert)
		input.MinStockAlert = &n
	}
	return input, nil
}

// applyProductInput copies supplied fields. A zero alert threshold falls back
// to the default.
func applyProductInput(p *models.Product, in models.ProductInput) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setString(&p.Name, in.Name)
	setString(&p.SKU, in.SKU)
	setString(&p.Barcode, in.Barcode)
	setString(&p.Category, in.Category)
	setString(&p.Location, in.Location)
	setString(&p.Brand, in.Brand)
	setString(&p.Supplier, in.Supplier)
	setString(&p.Unit, in.Unit)
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.CostPrice != nil {
		p.CostPrice = *in.CostPrice
	}
	if in.SalePrice != nil {
		p.SalePrice = *in.SalePrice
	}
	if in.MinStockAlert != nil {
		p.MinStockAlert = *in.MinStockAlert
		if p.MinStockAlert == 0 {
			p.MinStockAlert = models.DefaultMinStockAlert
		}
	}
}

// saveImage stores the optional "image" upload. It returns "" when none was sent.
func (pc *ProductController) saveImage(c echo.Context) (string, error) {
	if !isMultipart(c) {
		return "", nil
	}
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	return pc.images.Save(file, productImageFolder)
}
