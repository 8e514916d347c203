package catalog

const seedStockLevel = 100

type seedSnack struct {
	name  string
	price int
	image string
}

var seedSnacks = []seedSnack{
	{"Vada Pav", 20, "vada-pav.jpg"},
	{"Medu Vada", 30, "medu-vada.jpg"},
	{"Sabudana Vada", 30, "sabudana-vada.jpg"},
	{"Sabudana Khichadi", 40, "sabudana-khichadi.jpg"},
	{"Samosa", 20, "samosa.jpg"},
	{"Pohe", 20, "pohe.jpg"},
	{"Sheera", 20, "sheera.jpg"},
	{"Misal Pav", 70, "misal-pav.jpg"},
	{"Bhel", 50, "bhel.jpg"},
	{"Pav Bhaji", 60, "pav-bhaji.jpg"},
	{"Kanda Bhaji", 30, "kanda-bhaji.jpg"},
	{"Alu Vadi", 40, "alu-vadi.jpg"},
	{"Batata Bhaji", 30, "batata-bhaji.jpg"},
	{"Panipuri", 20, "panipuri.jpg"},
	{"Bharli Vangi", 70, "bharli-vangi.jpg"},
	{"Puran Poli", 30, "puran-poli.jpg"},
	{"Shrikhand Puri", 80, "shrikhand-puri.jpg"},
	{"Thalipeeth", 30, "thalipeeth.jpg"},
	{"Upma", 20, "upma.jpg"},
	{"Dosa", 30, "dosa.jpg"},
	{"Idli", 30, "idli.jpg"},
	{"Uttapa", 30, "uttapa.jpg"},
	{"Chaha", 10, "chaha.jpg"},
	{"Coffee", 10, "coffee.jpg"},
}
