package adapter

// Alias tables: canonical field -> ordered list of accepted source column
// names. The first present, non-empty candidate wins. Keeping these as data
// (instead of per-field conditional chains) makes the accepted spellings
// auditable and testable on their own.

var developmentAliases = map[string][]string{
	"id":          {"id", "ID"},
	"name":        {"nombre", "Nombre"},
	"builderName": {"constructora", "Constructora"},
	"description": {"descripcion"},
	"active":      {"activo"},

	"street":       {"calle", "ubicacion.calle"},
	"neighborhood": {"colonia", "ubicacion.colonia"},
	"locality":     {"localidad", "ubicacion.localidad"},
	"postalCode":   {"codigopostal", "ubicacion.cp"},
	"city":         {"ciudad", "ubicacion.ciudad"},
	"state":        {"estado", "ubicacion.estado"},
	"zone":         {"zona", "ubicacion.zona"},
	"latitude":     {"latitud", "ubicacion.latitud"},
	"longitude":    {"longitud", "ubicacion.longitud"},

	"amenities":    {"amenidades"},
	"surroundings": {"entorno"},

	"acceptedCredits":   {"acepta_creditos"},
	"minDeposit":        {"apartado_monto"},
	"minDownPaymentPct": {"enganche_pct"},

	"mediaCover":    {"url_cover"},
	"mediaGallery":  {"url_gallery"},
	"mediaBrochure": {"url_brochure"},
	"mediaVideo":    {"url_video"},

	"commissionOverridePct": {"override_comision"},

	"unitsTotal":     {"unidades.totales", "unidades_totales", "infoComercial.unidadesTotales"},
	"unitsSold":      {"unidades.vendidas", "unidades_vendidas", "infoComercial.unidadesVendidas"},
	"unitsAvailable": {"unidades.disponibles", "unidades_disponibles", "infoComercial.unidadesDisponibles"},
	"modelCount":     {"num_modelos"},
	"saleStartDate":  {"fecha_inicio_venta", "infoComercial.fechaInicioVenta"},

	"currency":    {"moneda"},
	"legalRegime": {"regimen"},

	"analysisSummary":    {"ia_resumen"},
	"analysisStrengths":  {"ia_fuertes"},
	"analysisWeaknesses": {"ia_debiles"},

	"promotionName":  {"promocion.nombre", "promocion_nombre", "Promocion.nombre"},
	"promotionStart": {"promocion.inicio", "promocion.fechainicio", "promocion_inicio", "promocion.fecha_inicio"},
	"promotionEnd":   {"promocion.final", "promocion.fechafinal", "promocion_fin", "promocion.fecha_fin"},
}

var unitModelAliases = map[string][]string{
	"id":              {"id", "ID"},
	"developmentId":   {"idDesarrollo", "id_desarrollo"},
	"developmentName": {"nombreDesarrollo", "nombre_desarrollo", "desarrollo"},
	"builderName":     {"constructora", "Constructora", "desarrollador"},
	"modelName":       {"nombreModelo", "nombre_modelo"},
	"description":     {"descripcion"},
	"active":          {"ActivoModelo", "activo_modelo", "activo"},
	"status":          {"status", "estado"},
	"propertyType":    {"tipo_vivienda", "tipoVivienda"},

	"bedrooms":  {"recamaras"},
	"bathrooms": {"banos"},
	"levels":    {"niveles"},
	"parking":   {"cajones"},
	"floorArea": {"m2_const", "m2"},
	"lotArea":   {"m2_terreno", "terreno"},
	"frontage":  {"frente"},
	"depth":     {"fondo"},
	"amenities": {"amenidades"},

	"priceBase":        {"precio_inicial", "precio_base", "precios.base"},
	"priceInitial":     {"precio_orig_lista", "precios.inicial"},
	"pricePerArea":     {"precio_m2", "precios.metroCuadrado"},
	"priceMaintenance": {"mantenimiento", "precios.mantenimientoMensual"},
	"currency":         {"moneda", "precios.moneda"},

	"unitsSold":                {"unidades_vendidas", "infoComercial.unidadesVendidas"},
	"estimatedAppreciationPct": {"plusvalia_pct", "infoComercial.plusvaliaEstimada"},
	"saleStartDate":            {"fecha_inicio", "infoComercial.fechaInicioVenta"},
	"deliveryTime":             {"tiempo_entrega", "infoComercial.tiempoEntrega"},

	"finishKitchen": {"acabado_cocina", "acabados.cocina"},
	"finishFloors":  {"acabado_pisos", "acabados.pisos"},

	"mediaCover":       {"img_cover", "media.cover"},
	"mediaGallery":     {"img_galeria", "media.gallery", "media.galeria"},
	"mediaFloorPlans":  {"url_plantas", "media.plantasArquitectonicas"},
	"mediaVirtualTour": {"url_tour", "media.recorridoVirtual"},
	"mediaVideo":       {"url_video", "media.videoPromocional", "media.video"},

	"analysisSummary":    {"ia_resumen"},
	"analysisStrengths":  {"ia_fuertes"},
	"analysisWeaknesses": {"ia_debiles"},

	"promotionName":  {"promocion.nombre", "promocion_nombre", "Promocion.nombre"},
	"promotionStart": {"promocion.inicio", "promocion_inicio", "promocion.fecha_inicio"},
	"promotionEnd":   {"promocion.final", "promocion_fin", "promocion.fecha_fin"},
	"timezoneCity":   {"ciudad", "timezone_city"},
}

var developerAliases = map[string][]string{
	"id":     {"ID", "id"},
	"name":   {"Nombre", "nombre"},
	"status": {"Status", "status"},

	"legalName": {"RazonSocial", "razon_social", "fiscal.razonSocial"},

	"commissionBasePct": {"ComisionBase", "comision_base", "comisiones.porcentajeBase"},
	"milestonesCredit":  {"HitosCredito", "hitos_credito", "pago_hitos_credito", "comisiones.hitos.credito"},
	"milestonesCash":    {"HitosContado", "hitos_contado", "pago_hitos_contado", "comisiones.hitos.contado"},
	"milestonesDirect":  {"HitosDirecto", "hitos_directo", "pago_hitos_directo", "comisiones.hitos.directo"},

	"primaryName":  {"ContactoNombre", "contacto_nombre_principal", "contacto_nom_1", "contacto.principal.nombre"},
	"primaryPhone": {"ContactoTelefono", "contacto_telefono_principal", "contacto_tel_1", "contacto.principal.telefono"},
	"primaryEmail": {"ContactoEmail", "contacto_email_principal", "contacto_mail_1", "contacto.principal.email"},
	"primaryRole":  {"ContactoPuesto", "contacto_puesto_principal", "contacto_puesto_1", "contacto.principal.puesto"},

	"secondaryName":  {"ContactoSecundarioNombre", "contacto_nombre_secundario", "contacto_nom_2", "contacto.secundario.nombre"},
	"secondaryPhone": {"ContactoSecundarioTelefono", "contacto_telefono_secundario", "contacto_tel_2", "contacto.secundario.telefono"},
	"secondaryEmail": {"ContactoSecundarioEmail", "contacto_email_secundario", "contacto_mail_2", "contacto.secundario.email"},
	"secondaryRole":  {"ContactoSecundarioPuesto", "contacto_puesto_secundario", "contacto.secundario.puesto"},
}
