package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"cleanmarket/internal/database"
	"cleanmarket/internal/domain"
	"cleanmarket/internal/modules/booking"
	"cleanmarket/internal/repository"
)

func main() {
	db, err := database.Connect("cleanmarket.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM reviews")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM time_slots")
	db.Exec("DELETE FROM area_sizes")
	db.Exec("DELETE FROM services")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@cleanmarket.local",
		PasswordHash: string(adminHash),
		Name:         "Admin",
		Role:         domain.RoleAdmin,
		Status:       domain.UserActive,
	}
	must(userRepo.Create(ctx, &admin))
	log.Println("Admin created: admin@cleanmarket.local / admin123")

	customers := make([]domain.User, 0, 3)
	for i := 1; i <= 3; i++ {
		hash, _ := bcrypt.GenerateFromPassword([]byte("customer123"), bcrypt.DefaultCost)
		u := domain.User{
			Email:        fmt.Sprintf("customer%d@example.com", i),
			PasswordHash: string(hash),
			Name:         fmt.Sprintf("Customer %d", i),
			Phone:        fmt.Sprintf("+770012345%02d", i),
			Role:         domain.RoleCustomer,
			Status:       domain.UserActive,
		}
		must(userRepo.Create(ctx, &u))
		customers = append(customers, u)
	}

	cleaners := make([]domain.User, 0, 2)
	for i := 1; i <= 2; i++ {
		hash, _ := bcrypt.GenerateFromPassword([]byte("cleaner123"), bcrypt.DefaultCost)
		u := domain.User{
			Email:        fmt.Sprintf("cleaner%d@example.com", i),
			PasswordHash: string(hash),
			Name:         fmt.Sprintf("Cleaner %d", i),
			Phone:        fmt.Sprintf("+770098765%02d", i),
			Role:         domain.RoleCleaner,
			Status:       domain.UserActive,
		}
		must(userRepo.Create(ctx, &u))
		cleaners = append(cleaners, u)
	}

	// ================== REFERENCE CATALOG ==================
	log.Println("Creating reference data...")

	services := []domain.Service{
		{Name: "Standard Cleaning", BasePrice: 300000, IsActive: true},
		{Name: "Deep Cleaning", BasePrice: 500000, IsActive: true},
		{Name: "Move-out Cleaning", BasePrice: 650000, IsActive: true},
	}
	for i := range services {
		must(catalogRepo.CreateService(ctx, &services[i]))
	}

	areas := []domain.AreaSize{
		{Name: "Small (under 50m2)", Multiplier: 1.0, IsActive: true},
		{Name: "Medium (50-100m2)", Multiplier: 1.5, IsActive: true},
		{Name: "Large (over 100m2)", Multiplier: 2.0, IsActive: true},
	}
	for i := range areas {
		must(catalogRepo.CreateAreaSize(ctx, &areas[i]))
	}

	slots := []domain.TimeSlot{
		{TimeRange: "08:00 - 11:00", IsActive: true},
		{TimeRange: "11:00 - 14:00", IsActive: true},
		{TimeRange: "14:00 - 17:00", IsActive: true},
		{TimeRange: "17:00 - 20:00", IsActive: true},
	}
	for i := range slots {
		must(catalogRepo.CreateTimeSlot(ctx, &slots[i]))
	}

	// ================== BOOKINGS ==================
	log.Println("Creating bookings...")

	svc := booking.NewService(bookingRepo, catalogRepo, userRepo)
	date := time.Now().AddDate(0, 0, 3).Format("2006-01-02")

	pending, err := svc.CreateBooking(ctx, customers[0].ID, booking.CreateBookingRequest{
		ServiceID:       services[0].ID,
		AreaSizeID:      areas[1].ID,
		TimeSlotID:      slots[0].ID,
		BookingDate:     date,
		AddressDistrict: "Almaly",
		AddressDetail:   "Abay Ave 10, apt 5",
		ContactName:     customers[0].Name,
		ContactPhone:    customers[0].Phone,
		Notes:           "Two cats at home",
	})
	must(err)
	log.Printf("Pending booking #%d, total %.2f", pending.ID, pending.TotalPrice)

	// one booking taken through the full lifecycle, then reviewed
	completed, err := svc.CreateBooking(ctx, customers[1].ID, booking.CreateBookingRequest{
		ServiceID:       services[1].ID,
		AreaSizeID:      areas[2].ID,
		TimeSlotID:      slots[2].ID,
		BookingDate:     date,
		AddressDistrict: "Medeu",
		AddressDetail:   "Dostyk Ave 97",
		ContactName:     customers[1].Name,
		ContactPhone:    customers[1].Phone,
	})
	must(err)

	_, err = svc.ClaimBooking(ctx, completed.ID, cleaners[0].ID)
	must(err)
	_, err = svc.AdvanceStatus(ctx, completed.ID, cleaners[0].ID, string(domain.BookingInProgress))
	must(err)
	_, err = svc.AdvanceStatus(ctx, completed.ID, cleaners[0].ID, string(domain.BookingCompleted))
	must(err)
	log.Printf("Completed booking #%d by cleaner %d", completed.ID, cleaners[0].ID)

	must(reviewRepo.Create(ctx, &domain.Review{
		BookingID:  completed.ID,
		CustomerID: customers[1].ID,
		CleanerID:  cleaners[0].ID,
		Rating:     5,
		Comment:    "Spotless, thank you!",
	}))

	log.Println("Seed complete")
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
