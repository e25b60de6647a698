package services

import (
  "context"
  "encoding/json"
  "fmt"
  "io"
  "math"
  "net/http"
  "net/url"
  "os"
  "strings"
  "time"

  "github.com/krishihq/cropadvisor-backend/internal/logger"
)

// WeatherReport is a simplified current-conditions view.
type WeatherReport struct {
  Location    string  `json:"location"`
  Temperature float64 `json:"temperature"`
  Humidity    float64 `json:"humidity"`
  WindSpeed   float64 `json:"wind_speed"`
  Condition   string  `json:"condition"`
  Description string  `json:"description"`
  Mock        bool    `json:"mock,omitempty"`
}

// ForecastDay is one day of a multi-day outlook.
type ForecastDay struct {
  Date        string  `json:"date"`
  TempMin     float64 `json:"temp_min"`
  TempMax     float64 `json:"temp_max"`
  Humidity    float64 `json:"humidity"`
  Condition   string  `json:"condition"`
  RainChance  float64 `json:"rain_chance"`
}

type WeatherService interface {
  Current(ctx context.Context, lat, lon float64) (*WeatherReport, error)
  Forecast(ctx context.Context, lat, lon float64, days int) ([]ForecastDay, error)
}

type weatherService struct {
  log        *logger.Logger
  apiKey     string
  baseURL    string
  httpClient *http.Client
}

// NewWeatherService builds the OpenWeatherMap client. Without an API
// key it degrades to deterministic mock data so the rest of the app
// keeps working in development.
func NewWeatherService(log *logger.Logger) WeatherService {
  serviceLog := log.With("service", "WeatherService")

  apiKey := strings.TrimSpace(os.Getenv("OPENWEATHER_API_KEY"))
  if apiKey == "" {
    serviceLog.Warn("OPENWEATHER_API_KEY not set, serving mock weather data")
  }

  baseURL := strings.TrimSpace(os.Getenv("OPENWEATHER_BASE_URL"))
  if baseURL == "" {
    baseURL = "https://api.openweathermap.org"
  }

  return &weatherService{
    log:        serviceLog,
    apiKey:     apiKey,
    baseURL:    baseURL,
    httpClient: &http.Client{Timeout: 15 * time.Second},
  }
}

type owmCurrentResponse struct {
  Name string `json:"name"`
  Main struct {
    Temp     float64 `json:"temp"`
    Humidity float64 `json:"humidity"`
  } `json:"main"`
  Wind struct {
    Speed float64 `json:"speed"`
  } `json:"wind"`
  Weather []struct {
    Main        string `json:"main"`
    Description string `json:"description"`
  } `json:"weather"`
}

func (ws *weatherService) Current(ctx context.Context, lat, lon float64) (*WeatherReport, error) {
  if ws.apiKey == "" {
    return mockCurrent(lat, lon), nil
  }

  query := url.Values{}
  query.Set("lat", fmt.Sprintf("%f", lat))
  query.Set("lon", fmt.Sprintf("%f", lon))
  query.Set("units", "metric")
  query.Set("appid", ws.apiKey)

  raw, err := ws.doGet(ctx, "/data/2.5/weather?"+query.Encode())
  if err != nil {
    ws.log.Warn("Weather API failed, serving mock data", "error", err)
    return mockCurrent(lat, lon), nil
  }

  var decoded owmCurrentResponse
  if err := json.Unmarshal(raw, &decoded); err != nil {
    ws.log.Warn("Weather API decode failed, serving mock data", "error", err)
    return mockCurrent(lat, lon), nil
  }

  report := &WeatherReport{
    Location:    decoded.Name,
    Temperature: decoded.Main.Temp,
    Humidity:    decoded.Main.Humidity,
    WindSpeed:   decoded.Wind.Speed,
  }
  if len(decoded.Weather) > 0 {
    report.Condition = decoded.Weather[0].Main
    report.Description = decoded.Weather[0].Description
  }
  return report, nil
}

type owmForecastResponse struct {
  List []struct {
    DtTxt string `json:"dt_txt"`
    Main  struct {
      TempMin  float64 `json:"temp_min"`
      TempMax  float64 `json:"temp_max"`
      Humidity float64 `json:"humidity"`
    } `json:"main"`
    Weather []struct {
      Main string `json:"main"`
    } `json:"weather"`
    Pop float64 `json:"pop"`
  } `json:"list"`
}

func (ws *weatherService) Forecast(ctx context.Context, lat, lon float64, days int) ([]ForecastDay, error) {
  if days <= 0 || days > 5 {
    days = 5
  }
  if ws.apiKey == "" {
    return mockForecast(lat, lon, days), nil
  }

  query := url.Values{}
  query.Set("lat", fmt.Sprintf("%f", lat))
  query.Set("lon", fmt.Sprintf("%f", lon))
  query.Set("units", "metric")
  query.Set("appid", ws.apiKey)

  raw, err := ws.doGet(ctx, "/data/2.5/forecast?"+query.Encode())
  if err != nil {
    ws.log.Warn("Forecast API failed, serving mock data", "error", err)
    return mockForecast(lat, lon, days), nil
  }

  var decoded owmForecastResponse
  if err := json.Unmarshal(raw, &decoded); err != nil {
    ws.log.Warn("Forecast API decode failed, serving mock data", "error", err)
    return mockForecast(lat, lon, days), nil
  }

  // The 5-day API returns 3-hour slices; fold them into daily buckets.
  byDate := map[string]*ForecastDay{}
  order := []string{}
  for _, slice := range decoded.List {
    if len(slice.DtTxt) < 10 {
      continue
    }
    date := slice.DtTxt[:10]
    day, ok := byDate[date]
    if !ok {
      day = &ForecastDay{Date: date, TempMin: slice.Main.TempMin, TempMax: slice.Main.TempMax}
      if len(slice.Weather) > 0 {
        day.Condition = slice.Weather[0].Main
      }
      byDate[date] = day
      order = append(order, date)
    }
    day.TempMin = math.Min(day.TempMin, slice.Main.TempMin)
    day.TempMax = math.Max(day.TempMax, slice.Main.TempMax)
    day.Humidity = math.Max(day.Humidity, slice.Main.Humidity)
    day.RainChance = math.Max(day.RainChance, slice.Pop*100)
  }

  results := make([]ForecastDay, 0, days)
  for _, date := range order {
    if len(results) >= days {
      break
    }
    results = append(results, *byDate[date])
  }
  return results, nil
}

func (ws *weatherService) doGet(ctx context.Context, path string) ([]byte, error) {
  req, err := http.NewRequestWithContext(ctx, http.MethodGet, ws.baseURL+path, nil)
  if err != nil {
    return nil, err
  }

  resp, err := ws.httpClient.Do(req)
  if err != nil {
    return nil, err
  }

  raw, readErr := io.ReadAll(resp.Body)
  _ = resp.Body.Close()
  if readErr != nil {
    return nil, readErr
  }
  if resp.StatusCode < 200 || resp.StatusCode >= 300 {
    return nil, fmt.Errorf("weather http %d: %s", resp.StatusCode, string(raw))
  }
  return raw, nil
}

// Mock data is deterministic per coordinate so the UI stays stable
// between refreshes.
func mockCurrent(lat, lon float64) *WeatherReport {
  seed := math.Abs(lat) + math.Abs(lon)
  return &WeatherReport{
    Location:    "Mock Station",
    Temperature: 22 + math.Mod(seed, 10),
    Humidity:    55 + math.Mod(seed*3, 30),
    WindSpeed:   5 + math.Mod(seed, 8),
    Condition:   "Clouds",
    Description: "scattered clouds",
    Mock:        true,
  }
}

func mockForecast(lat, lon float64, days int) []ForecastDay {
  seed := math.Abs(lat) + math.Abs(lon)
  results := make([]ForecastDay, 0, days)
  for i := 0; i < days; i++ {
    date := time.Now().AddDate(0, 0, i+1).Format("2006-01-02")
    results = append(results, ForecastDay{
      Date:       date,
      TempMin:    18 + math.Mod(seed+float64(i), 6),
      TempMax:    28 + math.Mod(seed+float64(i)*2, 8),
      Humidity:   50 + math.Mod(seed*float64(i+1), 35),
      Condition:  "Clouds",
      RainChance: math.Mod(seed*float64(i+2)*7, 100),
    })
  }
  return results
}
