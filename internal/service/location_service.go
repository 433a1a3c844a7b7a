package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Artixsss/MVDProject/internal/geo"
	"github.com/Artixsss/MVDProject/internal/logger"
	"github.com/Artixsss/MVDProject/internal/models"
	"github.com/Artixsss/MVDProject/internal/repository"
)

// Geocoder описывает первичный геокодер адресов.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*geo.Location, error)
}

// DistrictDetector описывает резервное AI-определение района.
type DistrictDetector interface {
	DetectDistrict(ctx context.Context, address string) string
}

// DistrictStore описывает доступ к справочнику районов.
type DistrictStore interface {
	GetDistrictByName(ctx context.Context, name string) (*models.District, error)
}

// ResolvedLocation итог разрешения адреса. Любое поле может остаться
// пустым: нераспознанный адрес — штатная ситуация, а не ошибка.
type ResolvedLocation struct {
	Latitude   *float64
	Longitude  *float64
	DistrictID *int64
}

// LocationService разрешает свободный адрес в координаты и район:
// сначала геокодер, и только при его полном промахе — AI-детектор.
type LocationService struct {
	geocoder  Geocoder
	detector  DistrictDetector
	districts DistrictStore
}

// NewLocationService создаёт сервис разрешения адресов.
func NewLocationService(geocoder Geocoder, detector DistrictDetector, districts DistrictStore) *LocationService {
	return &LocationService{
		geocoder:  geocoder,
		detector:  detector,
		districts: districts,
	}
}

// Resolve выполняет цепочку разрешения. Никогда не возвращает ошибку:
// сбой любого звена просто оставляет соответствующие поля пустыми.
func (s *LocationService) Resolve(ctx context.Context, address string) *ResolvedLocation {
	resolved := &ResolvedLocation{}

	address = strings.TrimSpace(address)
	if address == "" {
		return resolved
	}

	loc, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		logger.Log.WithField("error", err.Error()).Warn("location: геокодер недоступен")
	}
	if loc != nil {
		// Ответ геокодера авторитетен: метка района вне справочника
		// оставляет район пустым, резервный путь не задействуется.
		resolved.Latitude = &loc.Latitude
		resolved.Longitude = &loc.Longitude
		if id, ok := s.lookupDistrict(ctx, loc.District); ok {
			resolved.DistrictID = &id
		} else if strings.TrimSpace(loc.District) != "" {
			logger.Log.WithField("district", loc.District).Warn("location: метка района отсутствует в справочнике")
		}
		return resolved
	}
	if err == nil {
		logger.Log.WithField("address", address).Info("location: адрес не найден геокодером")
	}

	// Резервный путь: геокодер промахнулся, район по адресу определяет модель.
	aiName := s.detector.DetectDistrict(ctx, address)
	if aiName == models.DistrictUnknown {
		logger.Log.WithField("address", address).Info("location: район не определён")
		return resolved
	}

	if id, ok := s.lookupDistrict(ctx, aiName); ok {
		resolved.DistrictID = &id
	} else {
		logger.Log.WithField("district", aiName).Warn("location: модель назвала район вне справочника")
	}

	return resolved
}

// lookupDistrict ищет район справочника по имени.
func (s *LocationService) lookupDistrict(ctx context.Context, name string) (int64, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false
	}

	district, err := s.districts.GetDistrictByName(ctx, name)
	if err != nil {
		if !errors.Is(err, repository.ErrDistrictNotFound) {
			logger.Log.WithField("error", err.Error()).Error("location: поиск района")
		}
		return 0, false
	}
	return district.ID, true
}
