package catalog

import (
	"fmt"
	"time"

	"storefront-service/internal/models"

	"github.com/shopspring/decimal"
)

var sampleCreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type sampleItem struct {
	name, description string
	price, original   int64
	image             string
	category, sub     string
	unit, brand       string
	rating            float64
	reviews           int
	tags              []string
}

var sampleItems = []sampleItem{
	{"Fresh Bananas", "Sweet and ripe yellow bananas, perfect for smoothies and snacks", 40, 50, "photo-1571771894821-ce9b6c11b08e", "Fruits & Vegetables", "Fresh Fruits", "1 dozen", "Farm Fresh", 4.3, 245, []string{"fresh", "organic"}},
	{"Red Apples", "Crisp and juicy red apples from Himachal Pradesh", 120, 140, "photo-1560806887-1e4cd0b6cbd6", "Fruits & Vegetables", "Fresh Fruits", "1 kg", "Hill Fresh", 4.5, 189, []string{"fresh", "premium"}},
	{"Fresh Spinach", "Leafy green spinach rich in iron and vitamins", 25, 0, "photo-1576045057995-568f588f82fb", "Fruits & Vegetables", "Fresh Vegetables", "250g", "Green Fields", 4.2, 156, []string{"leafy", "healthy"}},
	{"Organic Tomatoes", "Vine-ripened organic tomatoes with rich flavor", 80, 95, "photo-1546094096-0df4bcaaa337", "Fruits & Vegetables", "Fresh Vegetables", "1 kg", "Organic Valley", 4.6, 234, []string{"organic", "fresh"}},
	{"Fresh Onions", "Premium quality onions for everyday cooking", 35, 0, "photo-1508313880080-c4bef43d8db9", "Fruits & Vegetables", "Fresh Vegetables", "1 kg", "Farm Direct", 4.1, 98, []string{"essential", "cooking"}},
	{"Amul Milk", "Fresh full cream milk from Amul", 28, 0, "photo-1550583724-b2692b85b150", "Dairy & Eggs", "Milk", "500ml", "Amul", 4.7, 567, []string{"fresh", "daily"}},
	{"Farm Fresh Eggs", "Brown eggs from free-range chickens", 84, 90, "photo-1582722872445-44dc5f7e3c8f", "Dairy & Eggs", "Eggs", "12 pieces", "Country Eggs", 4.4, 189, []string{"protein", "fresh"}},
	{"Amul Cheese Slices", "Processed cheese slices perfect for sandwiches", 135, 0, "photo-1552767059-ce182ead6c1b", "Dairy & Eggs", "Cheese", "200g", "Amul", 4.3, 234, []string{"creamy", "convenient"}},
	{"Greek Yogurt", "Thick and creamy Greek style yogurt", 65, 75, "photo-1571212515416-8c7ad409bcc4", "Dairy & Eggs", "Yogurt", "200g", "Mother Dairy", 4.5, 156, []string{"healthy", "probiotic"}},
	{"Fresh Chicken Breast", "Boneless chicken breast, antibiotic-free", 250, 0, "photo-1604503468506-a8da13d82791", "Meat & Seafood", "Chicken", "500g", "Licious", 4.6, 345, []string{"fresh", "protein"}},
	{"Rohu Fish", "Fresh water fish, cleaned and cut", 180, 200, "photo-1544943910-4c1dc44aab44", "Meat & Seafood", "Fish", "500g", "FreshToHome", 4.4, 123, []string{"fresh", "omega3"}},
	{"Basmati Rice", "Premium aged basmati rice with long grains", 185, 200, "photo-1586201375761-83865001e31c", "Pantry Staples", "Rice", "1 kg", "India Gate", 4.8, 678, []string{"premium", "aromatic"}},
	{"Wheat Flour", "Fresh ground whole wheat flour", 45, 0, "photo-1574323347407-f5e1ad6d020b", "Pantry Staples", "Flour", "1 kg", "Aashirvaad", 4.5, 456, []string{"whole grain", "fresh"}},
	{"Sunflower Oil", "Refined sunflower cooking oil", 140, 155, "photo-1474979266404-7eaacbcd87c5", "Pantry Staples", "Oil", "1L", "Fortune", 4.3, 234, []string{"cooking", "healthy"}},
	{"Turmeric Powder", "Pure turmeric powder with natural color", 25, 0, "photo-1615485290382-441e4d049cb5", "Pantry Staples", "Spices", "100g", "MDH", 4.6, 189, []string{"spice", "natural"}},
	{"Lay's Classic Chips", "Crispy potato chips with classic salted flavor", 20, 0, "photo-1566478989037-eec170784d0b", "Snacks & Beverages", "Chips", "52g", "Lay's", 4.2, 567, []string{"crispy", "snack"}},
	{"Oreo Cookies", "Chocolate sandwich cookies with cream filling", 25, 30, "photo-1558961363-fa8fdf82db35", "Snacks & Beverages", "Biscuits", "120g", "Oreo", 4.7, 789, []string{"sweet", "chocolate"}},
	{"Coca Cola", "Refreshing cola soft drink", 40, 0, "photo-1561758033-d89a9ad46330", "Snacks & Beverages", "Soft Drinks", "600ml", "Coca Cola", 4.1, 234, []string{"refreshing", "cold"}},
	{"Real Mango Juice", "100% natural mango fruit juice", 35, 40, "photo-1553530666-ba11a7da3888", "Snacks & Beverages", "Juices", "200ml", "Real", 4.4, 345, []string{"natural", "vitamin"}},
	{"Dove Soap", "Moisturizing beauty bar with 1/4 moisturizing cream", 45, 50, "photo-1556228720-195a672e8a03", "Personal Care", "Skincare", "100g", "Dove", 4.5, 456, []string{"moisturizing", "gentle"}},
	{"Head & Shoulders Shampoo", "Anti-dandruff shampoo for healthy scalp", 180, 0, "photo-1571019613454-1cb2f99b2d8b", "Personal Care", "Hair Care", "400ml", "Head & Shoulders", 4.3, 234, []string{"anti-dandruff", "clean"}},
	{"Colgate Toothpaste", "Complete care toothpaste for healthy teeth", 95, 105, "photo-1607613009820-a29f7bb81c04", "Personal Care", "Oral Care", "200g", "Colgate", 4.6, 567, []string{"fluoride", "fresh"}},
	{"Vim Dishwash Gel", "Powerful grease cutting dishwash gel", 85, 0, "photo-1583947215259-38e31be8751f", "Household", "Cleaning", "500ml", "Vim", 4.4, 234, []string{"cleaning", "grease-cutting"}},
	{"Surf Excel Detergent", "Removes tough stains with easy wash technology", 245, 260, "photo-1558618666-fcd25c85cd64", "Household", "Detergent", "1 kg", "Surf Excel", 4.5, 345, []string{"stain-removal", "effective"}},
}

// SampleProducts returns the built-in catalog used when no usable catalog is available
func SampleProducts() []models.Product {
	products := make([]models.Product, 0, len(sampleItems))
	for i, it := range sampleItems {
		p := models.Product{
			ID:          fmt.Sprintf("prd-%03d", i+1),
			Name:        it.name,
			Description: it.description,
			Price:       decimal.NewFromInt(it.price),
			ImageURL:    "https://images.unsplash.com/" + it.image + "?w=400",
			Category:    it.category,
			Subcategory: it.sub,
			Unit:        it.unit,
			Brand:       it.brand,
			Rating:      it.rating,
			ReviewCount: it.reviews,
			InStock:     true,
			Tags:        append([]string(nil), it.tags...),
			CreatedAt:   sampleCreatedAt,
		}
		if it.original > 0 {
			op := decimal.NewFromInt(it.original)
			p.OriginalPrice = &op
		}
		products = append(products, p)
	}
	return products
}

// Categories returns the browseable category tree
func Categories() []models.Category {
	return []models.Category{
		{Name: "Fruits & Vegetables", Icon: "🥬", Color: "green", Subcategories: []string{"Fresh Fruits", "Fresh Vegetables", "Herbs"}},
		{Name: "Dairy & Eggs", Icon: "🥛", Color: "blue", Subcategories: []string{"Milk", "Cheese", "Yogurt", "Eggs"}},
		{Name: "Meat & Seafood", Icon: "🍗", Color: "red", Subcategories: []string{"Chicken", "Mutton", "Fish", "Prawns"}},
		{Name: "Pantry Staples", Icon: "🌾", Color: "orange", Subcategories: []string{"Rice", "Flour", "Oil", "Spices"}},
		{Name: "Snacks & Beverages", Icon: "🍿", Color: "purple", Subcategories: []string{"Chips", "Biscuits", "Soft Drinks", "Juices"}},
		{Name: "Personal Care", Icon: "🧴", Color: "pink", Subcategories: []string{"Skincare", "Hair Care", "Oral Care"}},
		{Name: "Household", Icon: "🧽", Color: "gray", Subcategories: []string{"Cleaning", "Detergent", "Kitchen Items"}},
	}
}
