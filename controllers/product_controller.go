package controllers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/middlewares"
	"marketplace-service/models"
	"marketplace-service/services"
)

// 4 images of up to 8 MiB each plus the text fields
const maxProductForm = 34 << 20

type productForm struct {
	Title          string  `form:"title"`
	Subject        string  `form:"subject"`
	Category       string  `form:"category"`
	Condition      string  `form:"condition"`
	ClassType      string  `form:"classType"`
	Price          float64 `form:"price"`
	Author         string  `form:"author"`
	Edition        string  `form:"edition"`
	Description    string  `form:"description"`
	FinalPrice     float64 `form:"finalPrice"`
	ShippingCharge string  `form:"shippingCharge"`
	PaymentMode    string  `form:"paymentMode"`
	PaymentDetails string  `form:"paymentDetails"` // JSON object
}

func imageFiles(headers []*multipart.FileHeader) []services.ImageFile {
	files := make([]services.ImageFile, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		files = append(files, services.ImageFile{
			Filename: fh.Filename,
			Open:     func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return files
}

// CreateProduct POST /api/products (multipart, field "images")
func CreateProduct(svc *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxProductForm)

		var form productForm
		if err := c.ShouldBind(&form); err != nil {
			badRequest(c, err)
			return
		}
		var details models.SellerPaymentDetails
		if form.PaymentDetails != "" {
			if err := json.Unmarshal([]byte(form.PaymentDetails), &details); err != nil {
				badRequest(c, err)
				return
			}
		}

		var headers []*multipart.FileHeader
		if mf, err := c.MultipartForm(); err == nil {
			headers = mf.File["images"]
		}

		product, err := svc.Create(c.Request.Context(), middlewares.CurrentUserID(c), models.Product{
			Title:          form.Title,
			Subject:        form.Subject,
			Category:       form.Category,
			Condition:      form.Condition,
			ClassType:      form.ClassType,
			Price:          form.Price,
			Author:         form.Author,
			Edition:        form.Edition,
			Description:    form.Description,
			FinalPrice:     form.FinalPrice,
			ShippingCharge: form.ShippingCharge,
			PaymentMode:    form.PaymentMode,
			PaymentDetails: details,
		}, imageFiles(headers))
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusCreated, "Product created successfully", product)
	}
}

// GetProducts GET /api/products
func GetProducts(svc *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Products fetched successfully", products)
	}
}

// GetProduct GET /api/products/:id
func GetProduct(svc *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Product fetched successfully", product)
	}
}
