// Package menu holds the fixed trattoria catalog and the deterministic deck
// builder. The catalog is static configuration: 5 categories, 10 dishes per
// category, exactly 2 variants per dish. Nothing here is random; shuffling
// belongs to the game package.
package menu

// Category names, in the canonical order used when dealing hands.
const (
	CategoryEntrada    = "Entrada"
	CategoryPrincipal  = "Plato Principal"
	CategoryGuarnicion = "Guarnición"
	CategoryPostre     = "Postre"
	CategoryBebida     = "Bebida"
)

// Categories lists every category in canonical order.
var Categories = []string{
	CategoryEntrada,
	CategoryPrincipal,
	CategoryGuarnicion,
	CategoryPostre,
	CategoryBebida,
}

// Item is one dish on the menu together with its two variants.
type Item struct {
	Category string
	Dish     string
	Variants [2]string
}

// Catalog is the full 50-dish menu. Read-only.
var Catalog = []Item{
	{CategoryEntrada, "Tortilla", [2]string{"Espinaca", "Jamón y Queso"}},
	{CategoryEntrada, "Empanada", [2]string{"Carne", "Humita"}},
	{CategoryEntrada, "Provoleta", [2]string{"Clásica", "Con Tomate"}},
	{CategoryEntrada, "Rabas", [2]string{"Provenzal", "Con Limón"}},
	{CategoryEntrada, "Chorizo", [2]string{"Cerdo", "Mezcla"}},
	{CategoryEntrada, "Mollejas", [2]string{"Al Verdeo", "Al Limón"}},
	{CategoryEntrada, "Bruschetta", [2]string{"Tradicional", "Jamón Crudo"}},
	{CategoryEntrada, "Matambre", [2]string{"Con Rusa", "Con Mix Verdes"}},
	{CategoryEntrada, "Berenjenas", [2]string{"Al Escabeche", "Al Aceite"}},
	{CategoryEntrada, "Revuelto", [2]string{"Gramajo", "De la Casa"}},

	{CategoryPrincipal, "Milanesa", [2]string{"Napolitana", "Suiza"}},
	{CategoryPrincipal, "Ravioles", [2]string{"Ricotta", "Verdura"}},
	{CategoryPrincipal, "Sorrentinos", [2]string{"Jamón y Queso", "Calabaza"}},
	{CategoryPrincipal, "Ñoquis", [2]string{"Papa", "Espinaca"}},
	{CategoryPrincipal, "Pizza", [2]string{"Fugazzeta", "Margarita"}},
	{CategoryPrincipal, "Risotto", [2]string{"Hongos", "Calabaza"}},
	{CategoryPrincipal, "Bife de Lomo", [2]string{"Al Malbec", "Pimienta"}},
	{CategoryPrincipal, "Canelones", [2]string{"Verdura", "Carne"}},
	{CategoryPrincipal, "Lasagna", [2]string{"Carne", "Vegetariana"}},
	{CategoryPrincipal, "Suprema", [2]string{"Maryland", "A la Crema"}},

	{CategoryGuarnicion, "Papas Fritas", [2]string{"Bastón", "Rejilla"}},
	{CategoryGuarnicion, "Puré", [2]string{"Papa", "Calabaza"}},
	{CategoryGuarnicion, "Ensalada", [2]string{"Mixta", "Caprese"}},
	{CategoryGuarnicion, "Vegetales", [2]string{"Grillados", "Al Vapor"}},
	{CategoryGuarnicion, "Huevos", [2]string{"Fritos", "Revueltos"}},
	{CategoryGuarnicion, "Arroz", [2]string{"Blanco", "Con Queso"}},
	{CategoryGuarnicion, "Batatas", [2]string{"Al Horno", "Fritas"}},
	{CategoryGuarnicion, "Chauchas", [2]string{"Al Huevo", "Salteadas"}},
	{CategoryGuarnicion, "Calabaza", [2]string{"Al Horno", "Puré"}},
	{CategoryGuarnicion, "Polenta", [2]string{"Con Tuco", "Con Queso"}},

	{CategoryPostre, "Helado", [2]string{"Chocolate", "Crema"}},
	{CategoryPostre, "Flan", [2]string{"Mixto", "Solo"}},
	{CategoryPostre, "Panqueque", [2]string{"Dulce de Leche", "Manzana"}},
	{CategoryPostre, "Vigilante", [2]string{"Batata", "Membrillo"}},
	{CategoryPostre, "Budín de Pan", [2]string{"Con Crema", "Solo"}},
	{CategoryPostre, "Mousse", [2]string{"Chocolate", "Frutilla"}},
	{CategoryPostre, "Fruta", [2]string{"Ensalada", "Asada"}},
	{CategoryPostre, "Cheesecake", [2]string{"Frutos Rojos", "Maracuyá"}},
	{CategoryPostre, "Tiramisú", [2]string{"Clásico", "Con Licor"}},
	{CategoryPostre, "Volcán", [2]string{"Chocolate", "Dulce de Leche"}},

	{CategoryBebida, "Vino", [2]string{"Tinto", "Blanco"}},
	{CategoryBebida, "Gaseosa", [2]string{"Cola", "Lima"}},
	{CategoryBebida, "Cerveza", [2]string{"Rubia", "Roja"}},
	{CategoryBebida, "Agua", [2]string{"Con Gas", "Sin Gas"}},
	{CategoryBebida, "Jugo", [2]string{"Naranja", "Manzana"}},
	{CategoryBebida, "Aperitivo", [2]string{"Fernet", "Vermú"}},
	{CategoryBebida, "Café", [2]string{"Solo", "Cortado"}},
	{CategoryBebida, "Té", [2]string{"Común", "Digestivo"}},
	{CategoryBebida, "Limonada", [2]string{"Con Menta", "Con Jengibre"}},
	{CategoryBebida, "Soda", [2]string{"Sifón", "Botella"}},
}

// Dishes returns the catalog items for one category, in catalog order.
func Dishes(category string) []Item {
	var items []Item
	for _, item := range Catalog {
		if item.Category == category {
			items = append(items, item)
		}
	}
	return items
}
