package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load carga .env del directorio actual si existe.
// Las variables ya presentes en el entorno tienen prioridad.
// Devuelve false cuando no hay archivo (no es error).
func Load() bool {
	return godotenv.Load() == nil
}

// DB describe la conexión a Postgres. DSN tiene prioridad sobre los campos sueltos.
type DB struct {
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DB) ConnString() string {
	if strings.TrimSpace(d.DSN) != "" {
		return d.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type Common struct {
	Port          string
	CORSOrigins   []string
	OTLPEndpoint  string
	PublicBaseURL string // URL del gateway, usada para armar URLs de imágenes
}

type Products struct {
	Common
	DB DB
}

type Users struct {
	Common
	DB        DB
	JWTSecret string
	TokenTTL  time.Duration
}

type Minio struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type Redis struct {
	Addr     string
	Password string
	TTL      time.Duration
}

type Pets struct {
	Common
	DB DB

	UsersServiceURL string
	HTTPTimeout     time.Duration

	ImageStore string // local | minio
	UploadsDir string
	Minio      Minio

	Redis Redis // Addr vacío = sin cache

	AdoptionStatus string
}

type Gateway struct {
	Common

	ProductsURL    string
	UsersURL       string
	PetsURL        string
	PetsUploadsURL string

	ProductImagesDir string
	JWTSecret        string
}

func LoadProducts() Products {
	return Products{
		Common: loadCommon("4000"),
		DB:     loadDB(),
	}
}

func LoadUsers() Users {
	return Users{
		Common:    loadCommon("4001"),
		DB:        loadDB(),
		JWTSecret: getEnv("JWT_SECRET", "secret_key"),
		TokenTTL:  getDuration("JWT_TTL", time.Hour),
	}
}

func LoadPets() Pets {
	return Pets{
		Common:          loadCommon("4002"),
		DB:              loadDB(),
		UsersServiceURL: getEnv("USERS_SERVICE_URL", "http://localhost:4001/api/users"),
		HTTPTimeout:     getDuration("HTTP_CLIENT_TIMEOUT", 5*time.Second),
		ImageStore:      strings.ToLower(getEnv("IMAGE_STORE", "local")),
		UploadsDir:      getEnv("UPLOADS_DIR", "public/uploads/pets"),
		Minio: Minio{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getEnv("MINIO_BUCKET", "pets"),
			UseSSL:    getBool("MINIO_USE_SSL", false),
		},
		Redis: Redis{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			TTL:      getDuration("OWNER_CACHE_TTL", 10*time.Minute),
		},
		AdoptionStatus: getEnv("PETS_ADOPTION_STATUS", "En adopción"),
	}
}

func LoadGateway() Gateway {
	return Gateway{
		Common:           loadCommon("3000"),
		ProductsURL:      getEnv("PRODUCTS_SERVICE_URL", "http://localhost:4000/api/products"),
		UsersURL:         getEnv("USERS_SERVICE_URL", "http://localhost:4001/api/users"),
		PetsURL:          getEnv("PETS_SERVICE_URL", "http://localhost:4002/api/pets"),
		PetsUploadsURL:   getEnv("PETS_UPLOADS_URL", "http://localhost:4002/uploads"),
		ProductImagesDir: getEnv("PRODUCT_IMAGES_DIR", "public/images"),
		JWTSecret:        getEnv("JWT_SECRET", "secret_key"),
	}
}

func loadCommon(defaultPort string) Common {
	return Common{
		Port:          getEnv("PORT", defaultPort),
		CORSOrigins:   getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		OTLPEndpoint:  os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
	}
}

func loadDB() DB {
	return DB{
		DSN:      os.Getenv("DB_DSN"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		Name:     getEnv("DB_NAME", "petshop"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	out := make([]string, 0)
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
