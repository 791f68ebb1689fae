package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
)

var (
	baseURL  = envOr("API_URL", "http://localhost:8080")
	grpcAddr = envOr("API_GRPC_ADDR", "localhost:50051")
	secret   = os.Getenv("AUTH_JWT_SECRET")
	issuer   = os.Getenv("AUTH_JWT_ISSUER")
)

func main() {
	if secret == "" {
		log.Fatal("AUTH_JWT_SECRET must match the one marketplace-api runs with")
	}

	conn, err := grpc.NewClient(grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	healthResp, err := grpc_health_v1.NewHealthClient(conn).Check(context.Background(),
		&grpc_health_v1.HealthCheckRequest{Service: "marketplace-api"})
	if err != nil {
		log.Fatalf("Health check failed: %v", err)
	}
	fmt.Printf("gRPC health: %s\n", healthResp.Status)

	var health map[string]any
	call(http.DefaultClient, http.MethodGet, "/health", "", nil, http.StatusOK, &health)
	fmt.Printf("HTTP health: %v\n\n", health)

	artisanUser := uuid.New()
	buyerUser := uuid.New()
	artisanToken := mint(artisanUser, "artisan")
	buyerToken := mint(buyerUser, "buyer")
	adminToken := mint(uuid.New(), "admin")

	fmt.Println("Registering artisan")
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	call(http.DefaultClient, http.MethodPost, "/api/v1/artisans", artisanToken, map[string]string{
		"fullName":   "Amina Diallo",
		"profession": "Carpenter",
		"city":       "Dakar",
		"whatsapp":   "+221770000000",
		"bio":        "Custom furniture and repairs",
	}, http.StatusCreated, &created)
	fmt.Printf("Artisan %s registered with status %s\n", created.ID, created.Status)

	fmt.Println("Approving artisan")
	call(http.DefaultClient, http.MethodPatch, "/api/v1/admin/artisans/"+created.ID+"/status", adminToken,
		map[string]string{"status": "approved"}, http.StatusOK, nil)

	var listing struct {
		Artisans []map[string]any `json:"artisans"`
	}
	call(http.DefaultClient, http.MethodGet, "/api/v1/artisans?profession=carpenter&city=dakar", "", nil, http.StatusOK, &listing)
	fmt.Printf("Public listing returned %d artisans\n\n", len(listing.Artisans))

	fmt.Println("Anonymous visitor hits the login modal")
	jar, err := cookiejar.New(nil)
	if err != nil {
		log.Fatalf("Failed to create cookie jar: %v", err)
	}
	visitor := &http.Client{Jar: jar}
	call(visitor, http.MethodPost, "/api/v1/modal-events", "", map[string]string{
		"eventType":     "modal_shown",
		"artisanId":     created.ID,
		"triggerAction": "favorite",
	}, http.StatusAccepted, nil)

	var toggle map[string]any
	call(visitor, http.MethodPost, "/api/v1/artisans/"+created.ID+"/favorite", "",
		map[string]bool{"isFavorite": false}, http.StatusUnauthorized, &toggle)
	fmt.Printf("Anonymous toggle: %v\n", toggle)

	call(visitor, http.MethodPost, "/api/v1/modal-events", buyerToken, map[string]string{
		"eventType":        "modal_converted",
		"artisanId":        created.ID,
		"conversionAction": "signup",
	}, http.StatusAccepted, nil)

	fmt.Println("Buyer interacts with the artisan")
	call(http.DefaultClient, http.MethodPost, "/api/v1/artisans/"+created.ID+"/favorite", buyerToken,
		map[string]bool{"isFavorite": false}, http.StatusOK, &toggle)
	fmt.Printf("Toggle: %v\n", toggle)

	call(http.DefaultClient, http.MethodPost, "/api/v1/artisans/"+created.ID+"/contact", buyerToken,
		map[string]string{"contactType": "whatsapp"}, http.StatusAccepted, nil)

	var summary struct {
		AverageRating float64 `json:"averageRating"`
		Count         int     `json:"count"`
	}
	call(http.DefaultClient, http.MethodPost, "/api/v1/artisans/"+created.ID+"/reviews", buyerToken,
		map[string]any{"rating": 5, "comment": "Solid work, on time"}, http.StatusCreated, nil)
	call(http.DefaultClient, http.MethodGet, "/api/v1/artisans/"+created.ID+"/reviews", "", nil, http.StatusOK, &summary)
	fmt.Printf("Reviews: %d, average %.1f\n\n", summary.Count, summary.AverageRating)

	// the analytics consumer aggregates asynchronously
	time.Sleep(2 * time.Second)

	var dashboard map[string]any
	call(http.DefaultClient, http.MethodGet, "/api/v1/admin/dashboard", adminToken, nil, http.StatusOK, &dashboard)
	pretty, _ := json.MarshalIndent(dashboard, "", "  ")
	fmt.Printf("Dashboard:\n%s\n", pretty)

	var top struct {
		Artisans []map[string]any `json:"artisans"`
	}
	call(http.DefaultClient, http.MethodGet, "/api/v1/admin/top-artisans?limit=5", adminToken, nil, http.StatusOK, &top)
	fmt.Printf("Top artisans: %v\n", top.Artisans)

	fmt.Println("\nAll checks passed")
}

func call(client *http.Client, method, path, token string, body any, want int, out any) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			log.Fatalf("%s %s: encode body: %v", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		log.Fatalf("%s %s: expected %d, got %d: %s", method, path, want, resp.StatusCode, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			log.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
}

func mint(userID uuid.UUID, role string) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": role + "@example.com",
		"role":  role,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	if issuer != "" {
		claims["iss"] = issuer
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
