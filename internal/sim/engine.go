// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sim implements the local canned-response engine.
//
// The engine classifies the latest user message into a topic category by
// keyword matching, picks a canned response at random within the category,
// and resolves after a synthetic network delay. It serves two roles: the
// "local" provider users can select directly, and the terminal fallback when
// every real provider fails.
package sim

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/campusroyal/aichat/internal/model"
)

// ModelName tags every simulated response.
const ModelName = "local-mock-v1"

// Default synthetic latency bounds.
const (
	DefaultMinLatency = 500 * time.Millisecond
	DefaultMaxLatency = 1500 * time.Millisecond
)

// =============================================================================
// CATEGORY TABLE
// =============================================================================

// category pairs a keyword list with its canned responses. Matching is
// first-match-wins over the order of the categories slice, so more specific
// topics come before broad ones: a price question that mentions a course is
// still a price question.
type category struct {
	name      string
	keywords  []string
	responses []string
}

var categories = []category{
	{
		name:     "precio",
		keywords: []string{"precio", "costo", "pagar", "cuanto", "cuánto", "cuesta", "valor", "suscripción"},
		responses: []string{
			"Ofrecemos cursos desde $69.99 hasta $129.99. Además, tenemos planes de suscripción mensual ($49.99/mes) que te dan acceso ilimitado a todo el catálogo. ¿Quieres conocer nuestras opciones de pago?",
			"Contamos con opciones de pago flexibles: tarjeta de crédito, PayPal, y planes de pago en cuotas sin intereses. También ofrecemos descuentos por volumen para empresas.",
		},
	},
	{
		name:     "cursos",
		keywords: []string{"curso", "aprender", "estudiar", "clase", "programa", "contenido"},
		responses: []string{
			"¡Excelente pregunta! En Campus Royal ofrecemos más de 1,200 cursos en diversas áreas: Programación (React, Node.js, Python), Diseño (UX/UI, Figma), Inteligencia Artificial, Marketing Digital y más. ¿Hay algún área específica que te interese?",
			"Nuestros cursos están diseñados por expertos de la industria. Puedes filtrar por nivel (principiante, intermedio, avanzado), duración, y precio. ¿Quieres que te recomiende algunos según tus intereses?",
		},
	},
	{
		name:     "certificacion",
		keywords: []string{"certificado", "certificación", "diploma", "acreditación"},
		responses: []string{
			"Todos nuestros cursos incluyen certificados oficiales reconocidos internacionalmente. Al completar el curso con un 80% o más de aprobación, recibirás tu certificado digital verificable.",
			"Las certificaciones de Campus Royal están avaladas por instituciones educativas y son reconocidas por empresas líderes en tecnología. ¿Te gustaría ver ejemplos de certificados?",
		},
	},
	{
		name:     "inscripcion",
		keywords: []string{"inscribir", "registrar", "unir", "empezar", "comenzar"},
		responses: []string{
			"Inscribirse es muy sencillo: 1) Crea tu cuenta gratis, 2) Explora el catálogo de cursos, 3) Selecciona el curso que te interesa, 4) Completa el pago, ¡y listo! Tendrás acceso inmediato al contenido.",
			"El proceso de inscripción toma menos de 5 minutos. ¿Necesitas ayuda con algún paso en particular?",
		},
	},
	{
		name:     "duracion",
		keywords: []string{"duración", "tiempo", "horas", "cuanto dura", "largo"},
		responses: []string{
			"La duración varía según el curso. Tenemos cursos cortos de 10-20 horas y programas completos de 100+ horas. Puedes estudiar a tu propio ritmo con acceso ilimitado.",
			"Una vez inscrito, tienes acceso de por vida al curso. Puedes pausar y retomar cuando quieras, sin fechas límite.",
		},
	},
	{
		name:     "soporte",
		keywords: []string{"ayuda", "soporte", "problema", "contacto", "asistencia"},
		responses: []string{
			"Ofrecemos soporte 24/7 a través de este chat, email (soporte@campusroyal.com), y foros de la comunidad. Los instructores responden dudas en máximo 48 horas.",
			"¡Estoy aquí para ayudarte! Además, tenemos una base de conocimientos con tutoriales, FAQs y guías de estudio.",
		},
	},
}

// DefaultCategory is used when no keyword group matches.
const DefaultCategory = "default"

var defaultResponses = []string{
	"Interesante pregunta. En Campus Royal nos especializamos en educación de calidad. ¿Podrías darme más detalles para ayudarte mejor?",
	"Estoy aquí para ayudarte con información sobre cursos, certificaciones, precios, y más. ¿Qué te gustaría saber específicamente?",
	"¡Con gusto! Puedo ayudarte con: información de cursos, proceso de inscripción, certificaciones, precios, y soporte técnico. ¿Qué necesitas?",
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine produces canned responses with synthetic latency.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand

	minLatency time.Duration
	maxLatency time.Duration
}

// NewEngine creates an engine with the default latency bounds and a
// time-seeded random source.
func NewEngine() *Engine {
	return &Engine{
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		minLatency: DefaultMinLatency,
		maxLatency: DefaultMaxLatency,
	}
}

// WithLatency overrides the synthetic latency bounds. Tests use zero bounds.
func (e *Engine) WithLatency(min, max time.Duration) *Engine {
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	e.minLatency = min
	e.maxLatency = max
	return e
}

// WithSeed replaces the random source with a deterministic one.
func (e *Engine) WithSeed(seed int64) *Engine {
	e.rng = rand.New(rand.NewSource(seed))
	return e
}

// Classify returns the topic category for a user message. Matching is
// case-insensitive substring search, first category to match wins.
func Classify(text string) string {
	lower := strings.ToLower(text)
	for _, cat := range categories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				return cat.name
			}
		}
	}
	return DefaultCategory
}

// Candidates returns the canned response list for a category. Unknown
// categories get the default list.
func Candidates(categoryName string) []string {
	for _, cat := range categories {
		if cat.name == categoryName {
			return cat.responses
		}
	}
	return defaultResponses
}

// Respond classifies the latest user turn of req and resolves with a canned
// response after the synthetic delay. The only possible error is context
// cancellation.
func (e *Engine) Respond(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	categoryName := Classify(req.LastUserContent())
	pool := Candidates(categoryName)

	e.mu.Lock()
	content := pool[e.rng.Intn(len(pool))]
	delay := e.minLatency
	if span := e.maxLatency - e.minLatency; span > 0 {
		delay += time.Duration(e.rng.Int63n(int64(span)))
	}
	e.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return &model.ChatResponse{
		Content:   content,
		Model:     ModelName,
		Simulated: true,
	}, nil
}
