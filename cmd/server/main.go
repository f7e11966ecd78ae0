package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/voxel-world/internal/api"
	"github.com/annel0/voxel-world/internal/config"
	"github.com/annel0/voxel-world/internal/eventbus"
	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/metrics"
	"github.com/annel0/voxel-world/internal/observability"
	"github.com/annel0/voxel-world/internal/storage"
	"github.com/annel0/voxel-world/internal/util"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/annel0/voxel-world/internal/world/block"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML-конфигурации (по умолчанию VOXEL_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("❌ Неверный уровень логирования: %v", err)
	}
	if err := logging.InitLogger(cfg.Logging.Dir, level); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseLogger()

	logging.Info("🧱 Запуск сервера воксельного мира...")

	// === ТЕЛЕМЕТРИЯ ===
	shutdownTelemetry := func(context.Context) error { return nil }
	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(context.Background(), cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint)
		if err != nil {
			logging.Warn("⚠️ Телеметрия недоступна: %v", err)
		} else {
			shutdownTelemetry = shutdown
		}
	}

	// === МИР ===
	catalog := block.DefaultCatalog()
	logging.Debug("Каталог блоков: %d типов", catalog.Len())

	gen, err := buildGenerator(cfg.World, catalog)
	if err != nil {
		logging.Error("❌ Ошибка создания генератора: %v", err)
		log.Fatalf("❌ Ошибка создания генератора: %v", err)
	}

	start := time.Now()
	w, err := world.NewWorld(gen, catalog)
	if err != nil {
		log.Fatalf("❌ Ошибка генерации мира: %v", err)
	}
	logging.Info("🌍 Мир %dx%dx%d сгенерирован (%s) за %v",
		world.WorldExtent, world.WorldExtent, world.WorldExtent, cfg.World.Generator, time.Since(start))

	// === ХРАНИЛИЩЕ ===
	store, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		logging.Error("❌ Ошибка открытия хранилища: %v", err)
		log.Fatalf("❌ Ошибка открытия хранилища: %v", err)
	}
	defer store.Close()

	if cfg.Storage.AutoLoad {
		err := store.LoadWorld(context.Background(), w)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			logging.Info("💾 Сохранение не найдено, используется сгенерированный мир")
		case err != nil:
			logging.Error("❌ Ошибка загрузки мира: %v", err)
			log.Fatalf("❌ Ошибка загрузки мира: %v", err)
		default:
			logging.Info("💾 Мир загружен из %s", cfg.Storage.Path)
		}
	}

	// === ОСВЕЩЕНИЕ ===
	worldMetrics := metrics.NewWorldMetrics(nil)
	lighting := world.NewLighting(w)
	lighting.SetRecorder(worldMetrics)

	start = time.Now()
	if err := lighting.Rebuild(); err != nil {
		log.Fatalf("❌ Ошибка расчёта освещения: %v", err)
	}
	logging.Info("💡 Освещение рассчитано за %v", time.Since(start))

	// === ШИНА СОБЫТИЙ ===
	bus, err := eventbus.Open(cfg.Events.Backend, cfg.Events.URL, cfg.Events.Stream, cfg.Events.Retention, cfg.Events.Buffer)
	if err != nil {
		logging.Warn("⚠️ Шина событий недоступна (%s): %v", cfg.Events.Backend, err)
		bus = nil
	}
	if bus != nil {
		defer bus.Close()
		if err := eventbus.RegisterMetrics(nil, bus); err != nil {
			logging.Warn("⚠️ Метрики шины событий не зарегистрированы: %v", err)
		}
		if _, err := eventbus.StartLoggingListener(bus, logging.GetComponentLogger("eventbus")); err != nil {
			logging.Warn("⚠️ Не удалось подписать логгер событий: %v", err)
		}
		logging.Info("📨 Шина событий: %s", cfg.Events.Backend)
	}

	// === REST API ===
	restPort := fmt.Sprintf(":%d", cfg.Server.GetRESTPort())
	restServer, err := api.NewRestServer(api.Config{
		Port:         restPort,
		World:        w,
		Lighting:     lighting,
		Store:        store,
		Backend:      cfg.Storage.Backend,
		WorldMetrics: worldMetrics,
		Bus:          bus,
	})
	if err != nil {
		log.Fatalf("❌ Ошибка создания REST API: %v", err)
	}

	go func() {
		if err := restServer.Start(); err != nil {
			logging.Error("❌ Ошибка REST API: %v", err)
		}
	}()

	logging.Info("✅ Сервер готов")
	logging.Info("   🌐 REST API: http://localhost%s", restPort)
	logging.Info("   ❤️  Health check: http://localhost%s/health", restPort)
	logging.Info("   📈 Метрики: http://localhost%s/metrics", restPort)

	// Канал для получения сигналов ОС
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logging.Info("📡 Получен сигнал %v, завершение работы...", sig)

	// === GRACEFUL SHUTDOWN ===
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logging.Debug("Остановка REST API...")
	if err := restServer.Stop(ctx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}

	logging.Debug("Сохранение мира...")
	err = store.SaveWorld(ctx, w)
	worldMetrics.ObserveSave(cfg.Storage.Backend, err)
	if err != nil {
		logging.Error("❌ Ошибка сохранения мира: %v", err)
	} else {
		logging.Info("💾 Мир сохранён в %s", cfg.Storage.Path)
	}

	if err := shutdownTelemetry(ctx); err != nil {
		logging.Warn("⚠️ Ошибка остановки телеметрии: %v", err)
	}

	logging.Info("👋 Сервер успешно остановлен")
}

// buildGenerator создаёт генератор мира по конфигурации
func buildGenerator(cfg config.WorldConfig, catalog *block.Catalog) (world.ChunkGenerator, error) {
	switch cfg.Generator {
	case "layers", "":
		ids := make([]uint16, 0, len(cfg.Layers))
		for _, name := range cfg.Layers {
			b, ok := catalog.ByName(name)
			if !ok {
				return nil, fmt.Errorf("слой %q: %w", name, block.ErrUnknownBlock)
			}
			ids = append(ids, b.ID)
		}
		return world.FromBottomLayers(catalog, ids)
	case "noise":
		noise, err := util.NewNoise(cfg.Noise, cfg.Seed)
		if err != nil {
			return nil, err
		}
		palette, err := world.DefaultPalette(catalog)
		if err != nil {
			return nil, err
		}
		return world.NewNoiseGenerator(noise, palette), nil
	default:
		return nil, fmt.Errorf("неизвестный генератор: %q", cfg.Generator)
	}
}
