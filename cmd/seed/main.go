package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/greenmomguide/review-backend/config"
	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/internal/app/repository"
	"github.com/greenmomguide/review-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// 시트 컬럼: 상품명 | 브랜드 | 이미지 URL
const (
	colName = iota
	colBrand
	colImage
)

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run cmd/seed/main.go <living|cosmetic> <xlsx_file_path>")
	}

	category, err := model.ParseProductCategory(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	filePath := os.Args[2]

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	productRepo := repository.NewProductRepository(db.GetDB())

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total %s products to import: %d\n", category, len(products))

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 1000
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(category, products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readProductsFromXLSX(filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	// 첫 번째 시트만 읽는다
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	products, skipped := parseProductRows(rows)
	if skipped > 0 {
		fmt.Printf("Skipped rows: %d\n", skipped)
	}
	return products, nil
}

// parseProductRows skips the header row, blank names and duplicate (name, brand) pairs.
func parseProductRows(rows [][]string) ([]model.Product, int) {
	var products []model.Product
	seen := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) <= colName || strings.TrimSpace(row[colName]) == "" {
			skipped++
			continue
		}

		product := model.Product{Name: strings.TrimSpace(row[colName])}
		if len(row) > colBrand {
			product.Brand = strings.TrimSpace(row[colBrand])
		}
		if len(row) > colImage {
			product.ImageURL = strings.TrimSpace(row[colImage])
		}

		key := product.Name + "|" + product.Brand
		if seen[key] {
			skipped++
			continue
		}
		seen[key] = true
		products = append(products, product)
	}

	return products, skipped
}
