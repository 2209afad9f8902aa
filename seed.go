package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

// Demo account created by the seed.
const (
	seedEmail    = "test@ejemplo.com"
	seedPassword = "Test1234!"
)

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

// seedData fills an empty catalog with demo categories, products and the demo
// account. A store that already has categories is left alone.
func seedData(repos repositories.Set) error {
	existing, err := repos.Categories.GetAll()
	if err != nil {
		return fmt.Errorf("failed to check catalog: %w", err)
	}
	if len(existing) > 0 {
		log.Printf("Catalog already has %d categories, skipping seed", len(existing))
		return nil
	}

	categories := []models.Category{
		{Name: "Ropa", Description: strPtr("Camisetas, sudaderas y más"), ImagePath: strPtr("categories/ropa.jpg")},
		{Name: "Hogar", Description: strPtr("Tazas y decoración"), ImagePath: strPtr("categories/hogar.jpg")},
		{Name: "Digital", Description: strPtr("Contenido descargable")},
	}
	for i := range categories {
		if err := repos.Categories.Create(&categories[i]); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", categories[i].Name, err)
		}
	}

	productService := services.NewProductService(repos.Products)
	products := []models.Product{
		{
			Name: "Camiseta básica", Description: strPtr("Algodón orgánico"), Price: 1999, ComparePrice: 2499,
			StockQuantity: intPtr(25), SKU: "TSH-001", CategoryID: categories[0].ID,
			Images: []models.ProductImage{
				{ImagePath: "products/tsh-001-front.jpg", IsPrimary: true},
				{ImagePath: "products/tsh-001-back.jpg"},
			},
		},
		{
			Name: "Sudadera con capucha", Price: 3999, StockQuantity: intPtr(10), SKU: "HOD-001", CategoryID: categories[0].ID,
			Images: []models.ProductImage{{ImagePath: "products/hod-001.jpg"}},
		},
		{
			Name: "Taza de cerámica", Description: strPtr("350 ml"), Price: 899, StockQuantity: intPtr(40), SKU: "MUG-001", CategoryID: categories[1].ID,
			Images: []models.ProductImage{{ImagePath: "products/mug-001.jpg", AltText: strPtr("Taza blanca")}},
		},
		{
			Name: "Guía de estilo (PDF)", Price: 499, SKU: "DIG-001", CategoryID: categories[2].ID,
		},
	}
	for i := range products {
		if err := productService.CreateProduct(&products[i]); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", products[i].Name, err)
		}
		log.Printf("Seeded product: %s (ID: %d)", products[i].Name, products[i].ID)
	}

	users := services.NewUserService(repos.Users, events.Nop{})
	_, err = users.Register(context.Background(), services.RegisterInput{
		Email:     seedEmail,
		Password:  seedPassword,
		FirstName: "Usuario",
		LastName:  "Prueba",
	})
	if err != nil && !errors.Is(err, services.ErrConflict) {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}
	log.Printf("Seeded demo user %s", seedEmail)
	return nil
}
