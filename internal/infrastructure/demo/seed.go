package demo

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/pcmejia/inventario-obras/internal/domain/entity"
)

// Semilla fija: el modo demo genera exactamente el mismo estado en cada arranque.
const seedRand = 42

var cities = []string{"Bogotá", "Medellín", "Cali", "Barranquilla", "Cartagena", "Pereira", "Zipaquirá"}

type siteSeed struct {
	name   string
	typ    string
	budget int64
}

// Proyectos reales de la operación.
var siteSeeds = []siteSeed{
	{"ALMACEN STOCK MEDELLIN", entity.SiteTypeBodegaCentral, 0},
	{"ALMACEN STOCK BOGOTA", entity.SiteTypeBodegaCentral, 0},
	{"URB SALITRE LIVING BOG", entity.SiteTypeResidential, 1_500_000_000},
	{"SFV GRANJA LA FE BAQ", entity.SiteTypeSolar, 2_200_000_000},
	{"CLINICA COMEDAL MDE", entity.SiteTypeCommercial, 1_800_000_000},
	{"WAKE 2.0 MDE", entity.SiteTypeResidential, 1_200_000_000},
	{"SFV IED INMACULADA CONCE BAQ", entity.SiteTypeSolar, 900_000_000},
	{"NAVITRANS PEI", entity.SiteTypeIndustrial, 800_000_000},
	{"ALMA 72 BOG", entity.SiteTypeResidential, 1_100_000_000},
	{"NOMAD CABRERA BOG", entity.SiteTypeResidential, 950_000_000},
	{"SFV BOMBEROS TECNOGLASS BAQ", entity.SiteTypeSolar, 600_000_000},
	{"CLICK CLACK WE MDE", entity.SiteTypeCommercial, 1_400_000_000},
	{"SFV ALKOSTO MOSQUERA MOS", entity.SiteTypeSolar, 2_500_000_000},
}

type itemSeed struct {
	sku  string
	name string
	qty  int64
	val  int64
}

// Corte real del kárdex (cantidad total y valorización por referencia).
var itemSeeds = []itemSeed{
	{"HJ000099", "CABLE 12 AWG FUERZA LSHF TC 600V 90C VERDE", 29365, 58888041},
	{"005644", `TUERCA 3/8"`, 22698, 1992928},
	{"000269", "ARANDELA 3/8", 21294, 2255060},
	{"HJ000107", "CABLE 10 AWG FUERZA LSHF TC 600 V 90 C BLANCO", 6163, 19515522},
	{"HJ000110", "CABLE 10 AWG FUERZA LSHF TC 600 V 90 C AZUL", 5748, 18004512},
	{"004704", "TAPA 12X12 LISA GRIS", 4524, 10081288},
	{"HJ000114", "CABLE 8 AWG FUERZA LSHF TC 600V 90C NEGRO", 4221, 15117154},
	{"005698", `UNION EMT 3/4"`, 2211, 2197742},
	{"009383", "CABLE 6 AWG FUERZA LSHF TC600V 90C NEGRO", 2538, 21217903},
	{"013472", "CABLE 2/0 LSHF ALUMINIO", 2407, 17010662},
	{"009590", "CABLE 4/0 LSHF ALUMINIO", 2135, 21003831},
	{"005568", `TUBO EMT 3/4"`, 958, 15866637},
	{"005627", `TUBO PVC 3/4"`, 997, 4627277},
	{"001126", "CABLE CU.D 1/0", 858, 24369681},
	{"005553", `TUBO EMT 1"`, 760, 16872370},
	{"001339", "CABLE XLPE ALUMINIO 1/0 15KV 100% PANTALLA CINTA", 239, 6166200},
	{"001129", "CABLE CU.D 2/0", 558, 20172849},
	{"005559", `TUBO EMT 1/2"`, 565, 5096113},
	{"009384", "CABLE 4 AWG FUERZA LSHF TC 600V 90C NEGRO", 869, 9905085},
	{"009385", "CABLE 2 AWG FUERZA LSHF TC 600V 90C NEGRO", 1396, 28463916},
	{"005557", `TUBO EMT 1.1/2"`, 122, 5327399},
	{"009392", "CABLE 350 kCMIL FUERZA LSHF TC 600V 90C NEGRO", 226, 23114446},
	{"009386", "CABLE 1/0 AWG FUERZA LSHF TC 600V 90C NEGRO", 455, 10905581},
	{"005562", `TUBO EMT 3"`, 101, 10940516},
	{"49099", "TRAMO RECTO BLINDOBARRA 630 AMP 3P4W+50%E", 99, 79688664},
	{"49089", "TRAMO RECTO BLINDOBARRA 800 AMP 4W(200%N)+50%E", 95, 92933940},
	{"002441", "DUCTO 40X10 GALVANIZADA", 116, 14709331},
	{"009393", "CABLE 500 kCMIL FUERZA LSHF TC 600V 90C NEGRO", 80, 12334846},
	{"004640", "TABLERO 3F 12 CTOS ESPACIO PARA TOTALIZADOR SCHNEIDER", 61, 16559359},
	{"63915", "LUMINARIA LED TIPO HERMÉTICA 36W EMERGENCIA", 164, 61664000},
	{"49079", "TRAMO RECTO BLINDOBARRA 1250 AMP 3P4W+50%E", 157, 183718260},
	{"HJ000102", "CABLE 12 AWG FUERZA LSHF TC 600V 90C ROJO", 15149, 32295177},
	{"HJ000103", "CABLE 12 AWG FUERZA LSHF TC 600V 90C BLANCO", 13504, 28838253},
	{"HJ000101", "CABLE 12 AWG FUERZA LSHF TC 600V 90C AZUL", 13978, 29946809},
	{"HJ000100", "CABLE 12 AWG FUERZA LSHF TC 600V 90C AMARILLO", 11676, 25066975},
	{"009389", "CABLE 4/0 AWG FUERZA LSHF TC 600V 90C NEGRO", 500, 31694000},
	{"47078", "TRANSFORMADOR PARA 800KVA BT-BT", 2, 110424800},
	{"017197", "INVERSOR HUAWEI SUN2000 80K-MGL0 220V", 2, 37539600},
	{"47212", "T-DISTRIBUCIÓN ALUMBRADO – TOMAS - DATACENTER C4 DU", 1, 62750000},
	{"47204", "CELDA GENERAL TRANSFERENCIA A 480VAC LABORATORIOS", 1, 62502000},
	{"47079", "TRANSFORMADOR PARA 630KVA BT-BT", 1, 47433000},
	{"68951", "TABLERO 103COLP-01", 1, 44635841},
	{"70673", "LUMINARIA LED TIPO HIGH BAY 174W", 64, 46425600},
	{"68949", "TABLERO BANCO CONDENSADORES 75 KVAR", 1, 40468180},
	{"002862", `GRAPA GALVAN DOBLE ALA 3/4"`, 7230, 1357378},
	{"001992", "CONECTOR RESORTE GARDEN - BENDER 10-12 ROJO", 15557, 3075006},
	{"001714", `CHAZO NYLON DE 1/4 X 1.1/2"`, 12631, 1809511},
	{"001722", `CHAZO PLASTICO SUPRA 1/4X1,1/4"`, 10103, 1754605},
	{"006017", "MARCACION TIPO ANILLO AR1", 5662, 905920},
	{"004986", "TERMINAL DE OJO 10-12 DE 1/4", 8199, 1721645},
	{"000266", "ARANDELA 1/4", 6935, 496623},
	{"005330", `TORNILLO CABEZA LENTEJA 1/4X1/2"`, 3958, 404247},
	{"002196", "CAJA DE EMPALME 12X12X5 GRIS", 865, 3559541},
	{"71132", "CABLE GENESIS 2X16 SIN BLINDAR CARRETE", 1206, 3453550},
	{"001190", "CABLE FIBRA OPTICA MULT. 12HILOS 50/125 LEVITON", 20, 295800},
	{"001325", "CABLE UTP CATEGORIA 6A", 1016, 2331377},
	{"002556", "ESPARRAGO DE 3/8 X 3 MTRS", 445, 4077769},
	{"001170", "CABLE ENCAUCHETADO 3X16", 512, 1937034},
	{"005132", "TOMA DOBLE LEVITON BLANCO PAT", 645, 3351137},
	{"006294", "SOPORTE BEAM CLAMP 3/8", 574, 3359076},
	{"003841", "PERFIL RANURADO 4X4 X 3MTS GALVANIZADO", 120, 5200698},
}

// determineCategory clasifica una referencia por palabras clave del nombre.
func determineCategory(name string) string {
	n := strings.ToUpper(name)
	contains := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(n, w) {
				return true
			}
		}
		return false
	}
	switch {
	case contains("CABLE", "ALAMBRE", "CONDUCTOR", "CORDON"):
		return entity.CategoryCables
	case contains("TUBO", "CURVA", "UNION", "ADAPTADOR", "CANALETA", "DUCTO", "BANDEJA", "CODO", "CONDULETE"):
		return entity.CategoryTuberia
	case contains("BREAKER", "TABLERO", "TOTALIZADOR", "TOMA", "INTERR", "DPS", "TRANSFORMADOR", "CELDA", "GABINETE"):
		return entity.CategoryProteccion
	case contains("LUMINARIA", "REFLECTOR", "BALA", "BOMBILLO", "LED", "PANEL"):
		return entity.CategoryIluminacion
	case contains("BROCA", "SIERRA", "ALICATE", "DESTORNILLADOR", "HERRAMIENTA", "TALADRO", "MULTIMETRO", "PINZA", "PONCHADORA", "MOLDE"):
		return entity.CategoryHerramienta
	default:
		return entity.CategoryAccesorios
	}
}

// dataset estado completo generado por la semilla.
type dataset struct {
	sites     []entity.Site
	items     []entity.Item
	inventory []entity.InventoryRecord
	txs       []entity.Transaction
	tools     []entity.Tool
	movements []entity.MovementRequest
	progress  []entity.ProjectProgress
	users     []entity.User
}

// generate construye el estado demo: distribuye el kárdex real entre las sedes
// y sintetiza transacciones, avances, herramientas y solicitudes coherentes.
func generate(now time.Time) *dataset {
	rng := rand.New(rand.NewSource(seedRand))
	ds := &dataset{}

	daysAgo := func(days int) time.Time { return now.AddDate(0, 0, -days) }

	for i, s := range siteSeeds {
		ds.sites = append(ds.sites, entity.Site{
			ID:       fmt.Sprintf("s%d", i+1),
			Name:     s.name,
			Type:     s.typ,
			Location: cities[i%len(cities)],
			Budget:   decimal.NewFromInt(s.budget),
		})
	}

	for _, row := range itemSeeds {
		cost := row.val
		if row.qty > 0 {
			cost = row.val / row.qty
		}
		// history[0] es la compra más reciente.
		history := make([]entity.PricePoint, 0, 6)
		for m := 0; m < 6; m++ {
			fluctuation := 0.95 + rng.Float64()*0.1
			history = append(history, entity.PricePoint{
				Date:  now.AddDate(0, -m, 0),
				Price: decimal.NewFromInt(cost).Mul(decimal.NewFromFloat(fluctuation)).Round(0),
			})
		}
		unit := "und"
		if strings.Contains(row.name, "CABLE") || strings.Contains(row.name, "TUBO") {
			unit = "mts"
		}
		ds.items = append(ds.items, entity.Item{
			ID:           row.sku,
			SKU:          row.sku,
			Name:         row.name,
			Category:     determineCategory(row.name),
			Unit:         unit,
			Cost:         decimal.NewFromInt(cost),
			PriceHistory: history,
		})
	}

	// Distribución del kárdex: cada referencia se reparte en 1 a 4 sedes.
	index := make(map[string]int) // itemID_siteID -> posición en ds.inventory
	for _, row := range itemSeeds {
		remaining := row.qty
		if remaining <= 0 {
			continue
		}
		numberOfSites := rng.Intn(4) + 1
		for i := 0; i < numberOfSites && remaining > 0; i++ {
			site := ds.sites[rng.Intn(len(ds.sites))]

			qtyForSite := remaining
			if i < numberOfSites-1 {
				qtyForSite = int64(float64(remaining) * (0.2 + rng.Float64()*0.3))
			}
			if qtyForSite > remaining {
				qtyForSite = remaining
			}
			if qtyForSite == 0 {
				continue
			}
			remaining -= qtyForSite

			key := row.sku + "_" + site.ID
			if pos, seen := index[key]; seen {
				ds.inventory[pos].Quantity = ds.inventory[pos].Quantity.Add(decimal.NewFromInt(qtyForSite))
			} else {
				index[key] = len(ds.inventory)
				ds.inventory = append(ds.inventory, entity.InventoryRecord{
					ID:            fmt.Sprintf("inv-%s-%s", row.sku, site.ID),
					ItemID:        row.sku,
					SiteID:        site.ID,
					Quantity:      decimal.NewFromInt(qtyForSite),
					LastMovedDate: daysAgo(rng.Intn(60)),
				})
			}

			// Avance de instalación solo en obras, nunca en bodegas.
			if site.Type != entity.SiteTypeBodegaCentral {
				installed := int64(float64(qtyForSite) * (rng.Float64() * 0.7))
				ds.progress = append(ds.progress, entity.ProjectProgress{
					ID:                fmt.Sprintf("prog-inv-%s-%s", row.sku, site.ID),
					SiteID:            site.ID,
					ItemID:            row.sku,
					QuantityInstalled: decimal.NewFromInt(installed),
					LastReportDate:    daysAgo(2),
				})
			}
		}
	}

	// Libro de transacciones coherente con la distribución.
	for _, inv := range ds.inventory {
		entryQty := inv.Quantity.Add(inv.Quantity.Mul(decimal.NewFromFloat(0.1)).Floor())
		ds.txs = append(ds.txs, entity.Transaction{
			ID:       "tx_entry_" + inv.ID,
			ItemID:   inv.ItemID,
			SiteID:   inv.SiteID,
			Quantity: entryQty,
			Date:     daysAgo(rng.Intn(120) + 60),
			Type:     entity.TxEntry,
		})
		if rng.Float64() > 0.3 {
			consumed := inv.Quantity.Mul(decimal.NewFromFloat(0.05)).Floor()
			ds.txs = append(ds.txs, entity.Transaction{
				ID:       "tx_cons_" + inv.ID,
				ItemID:   inv.ItemID,
				SiteID:   inv.SiteID,
				Quantity: consumed.Neg(),
				Date:     daysAgo(rng.Intn(30)),
				Type:     entity.TxConsumption,
			})
		}
	}

	// Parque de herramientas.
	toolBrands := []string{"DeWalt", "Bosch", "Makita", "Fluke", "Hilti", "Klein Tools"}
	toolCategories := []string{entity.ToolCatElectrica, entity.ToolCatManual, entity.ToolCatMedicion, entity.ToolCatSeguridad}
	for i := 0; i < 80; i++ {
		site := ds.sites[rng.Intn(len(ds.sites))]
		brand := toolBrands[rng.Intn(len(toolBrands))]
		problematic := rng.Float64() < 0.1

		status := entity.ToolOperativa
		maintenance := daysAgo(-30) // dentro de un mes
		if problematic {
			status = entity.ToolMantenimiento
			maintenance = daysAgo(5) // ya vencido
		}
		ds.tools = append(ds.tools, entity.Tool{
			ID:                     fmt.Sprintf("t%d", i),
			Name:                   fmt.Sprintf("Herramienta %s Tipo %c", brand, 'A'+i%5),
			SerialNumber:           fmt.Sprintf("SN-%d", 10000+i),
			Brand:                  brand,
			SiteID:                 site.ID,
			PurchaseDate:           daysAgo(rng.Intn(500)),
			WarrantyExpirationDate: daysAgo(rng.Intn(300) - 150),
			NextMaintenanceDate:    maintenance,
			Status:                 status,
			Category:               toolCategories[i%len(toolCategories)],
		})
	}

	// Solicitudes de traslado recientes: 10 pendientes, 15 aprobadas, 5 rechazadas.
	// Sin BatchID: vienen del histórico anterior a las órdenes agrupadas.
	for i := 0; i < 30; i++ {
		from := ds.sites[rng.Intn(len(ds.sites))]
		to := ds.sites[rng.Intn(len(ds.sites))]
		for to.ID == from.ID {
			to = ds.sites[rng.Intn(len(ds.sites))]
		}
		item := ds.items[rng.Intn(len(ds.items))]

		m := entity.MovementRequest{
			ID:          fmt.Sprintf("mov%d", i),
			ItemID:      item.ID,
			FromSiteID:  from.ID,
			ToSiteID:    to.ID,
			Quantity:    decimal.NewFromInt(int64(rng.Intn(20)) + 1),
			RequestDate: daysAgo(rng.Intn(15)),
			RequesterID: "u3",
			Status:      entity.MovementPending,
		}
		switch {
		case i >= 25:
			m.Status = entity.MovementRejected
			m.RejectionReason = "Stock reservado para otra obra"
			decided := daysAgo(1)
			m.ApprovalDate = &decided
		case i >= 10:
			m.Status = entity.MovementApproved
			decided := daysAgo(1)
			m.ApprovalDate = &decided
		}
		ds.movements = append(ds.movements, m)
	}

	ds.users = seedUsers()
	return ds
}

type userSeed struct {
	id       string
	username string
	name     string
	role     string
	siteID   string
	password string
}

var userSeeds = []userSeed{
	{"u1", "admin", "Carlos Admin", entity.RoleAdmin, "", "admin123"},
	{"u2", "director", "Ana Directora", entity.RoleDirector, "", "director123"},
	{"u3", "obra", "Juan Residente", entity.RoleSiteManager, "s1", "obra123"},
	{"u4", "compras", "Maria Compras", entity.RolePurchasing, "", "compras123"},
}

func seedUsers() []entity.User {
	users := make([]entity.User, 0, len(userSeeds))
	for _, u := range userSeeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			panic(err) // solo falla con un costo inválido
		}
		users = append(users, entity.User{
			ID:             u.id,
			Username:       u.username,
			Name:           u.name,
			Role:           u.role,
			AssignedSiteID: u.siteID,
			PasswordHash:   string(hash),
		})
	}
	return users
}
